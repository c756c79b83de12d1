package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uhppoted/uhppoted-app-formfiles/form"
	"github.com/uhppoted/uhppoted-app-formfiles/relocate"
)

var OnSubmitCmd = OnSubmit{
	command: command{
		properties: DEFAULT_PROPERTIES,
		workdir:    DEFAULT_WORKDIR,
		debug:      false,
	},

	event: "-",
}

type OnSubmit struct {
	command
	event string
}

func (cmd *OnSubmit) Name() string {
	return "on-submit"
}

func (cmd *OnSubmit) Description() string {
	return "Relocates the files uploaded with a single form submission"
}

func (cmd *OnSubmit) Usage() string {
	return "--properties <file> --event <file>"
}

func (cmd *OnSubmit) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] on-submit [options] --event <file>\n", APP)
	fmt.Println()
	fmt.Println("  Moves the files uploaded with a form submission from Google Drive to the configured storage bucket")
	fmt.Println("  and replaces the file links in the form response spreadsheet with the storage object URLs. The")
	fmt.Println("  form submission event is read from the --event file, or from stdin if the file is '-'.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug on-submit --properties formfiles.yaml --event submission.json\n", APP)
	fmt.Printf(`    %s on-submit --form-files-path "employee-shared/form-files" \`+"\n", APP)
	fmt.Println(`                                    --spreadsheet "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" < submission.json`)
	fmt.Println()
}

func (cmd *OnSubmit) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("on-submit")

	flagset.StringVar(&cmd.event, "event", cmd.event, "Form submission event JSON file ('-' for stdin)")

	return flagset
}

func (cmd *OnSubmit) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	if err := required(map[string]string{"event": cmd.event}); err != nil {
		return err
	}

	properties, err := cmd.load()
	if err != nil {
		return err
	}

	event, err := readEvent(cmd.event, os.Stdin)
	if err != nil {
		return err
	}

	handler := relocate.NewHandler(properties, relocate.Google{}, cmd.debug)
	handler.OnFormSubmit(ctx, event)

	return nil
}

func readEvent(file string, stdin io.Reader) (form.Event, error) {
	if strings.TrimSpace(file) == "-" {
		return form.ReadEvent(stdin)
	}

	f, err := os.Open(file)
	if err != nil {
		return form.Event{}, fmt.Errorf("unable to open event file (%v)", err)
	}

	defer f.Close()

	return form.ReadEvent(f)
}
