package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-formfiles/credentials"
	"github.com/uhppoted/uhppoted-app-formfiles/objectstore"
	"github.com/uhppoted/uhppoted-app-formfiles/relocate"
)

var ListCmd = List{
	command: command{
		properties: DEFAULT_PROPERTIES,
		workdir:    DEFAULT_WORKDIR,
		debug:      false,
	},

	file: "",
}

type List struct {
	command
	file string
}

func (cmd *List) Name() string {
	return "list"
}

func (cmd *List) Description() string {
	return "Lists the relocated files in the storage bucket folder"
}

func (cmd *List) Usage() string {
	return "--properties <file> [--file <file>]"
}

func (cmd *List) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] list [options] [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Lists the objects in the configured storage bucket folder as TSV, either to the console or to a file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s list --properties formfiles.yaml\n", APP)
	fmt.Printf(`    %s list --form-files-path "employee-shared/form-files" --file "form-files.tsv"`+"\n", APP)
	fmt.Println()
}

func (cmd *List) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("list")

	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to the console")

	return flagset
}

func (cmd *List) Execute(args ...any) error {
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

	provider := credentials.NewProvider(properties, credentials.CLOUD_PLATFORM)
	tokens, err := provider.TokenSource(ctx)
	if err != nil {
		return err
	}

	client, err := objectstore.NewClient(ctx, settings.Destination.Bucket, option.WithTokenSource(tokens))
	if err != nil {
		return err
	}

	defer client.Close()

	objects, err := client.List(ctx, settings.Destination.Folder)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("bucket %v  prefix %v: %v object(s)", client.Bucket(), settings.Destination.Folder, len(objects))
	}

	if cmd.file == "" {
		return objectsToTSV(os.Stdout, objects)
	}

	return write(cmd.file, func(w io.Writer) error {
		return objectsToTSV(w, objects)
	})
}

func write(file string, f func(io.Writer) error) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := f(tmp); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return err
	}

	infof("stored object list to %v", file)

	return nil
}
