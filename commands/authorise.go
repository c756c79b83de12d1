package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/uhppoted/uhppoted-app-formfiles/credentials"
	"github.com/uhppoted/uhppoted-app-formfiles/relocate"
)

var AuthoriseCmd = Authorise{
	command: command{
		properties: DEFAULT_PROPERTIES,
		workdir:    DEFAULT_WORKDIR,
		debug:      false,
	},
}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Verifies that the service account can access Google Drive, Google Sheets and the storage bucket"
}

func (cmd *Authorise) Usage() string {
	return "--properties <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Exchanges the service account key for an access token and opens the form response spreadsheet")
	fmt.Println("  i.e. verifies that the configuration is complete and that the service account has been granted")
	fmt.Println("  access to the spreadsheet.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s authorise --properties formfiles.yaml\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return cmd.flagset("authorise")
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	properties, err := cmd.load()
	if err != nil {
		return err
	}

	settings, err := relocate.NewSettings(properties)
	if err != nil {
		return err
	}

	provider := credentials.NewProvider(properties)
	account, err := provider.Account()
	if err != nil {
		return err
	}

	token, err := provider.Token(ctx)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	infof("service account %v (project %v): token valid until %v", account.ClientEmail, account.ProjectID, token.Expiry.Format(time.RFC3339))

	tokens, err := provider.TokenSource(ctx)
	if err != nil {
		return err
	}

	if _, err := (relocate.Google{}).Connect(ctx, settings, tokens); err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	infof("spreadsheet %v: ok", settings.Spreadsheet)

	return nil
}
