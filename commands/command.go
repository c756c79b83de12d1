package commands

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/uhppoted/uhppoted-app-formfiles/config"
)

const APP = "uhppoted-app-formfiles"

type Options struct {
	Debug bool
}

// command holds the options common to all the form file commands. The
// properties file is overlaid with FORMFILES_ environment variables and then
// with any values set on the command line.
type command struct {
	properties    string
	workdir       string
	formFilesPath string
	spreadsheet   string
	area          string
	debug         bool
}

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&cmd.properties, "properties", cmd.properties, "Properties file")
	flagset.StringVar(&cmd.formFilesPath, "form-files-path", cmd.formFilesPath, "Storage bucket and folder for relocated files e.g. 'employee-shared/form-files'")
	flagset.StringVar(&cmd.spreadsheet, "spreadsheet", cmd.spreadsheet, "Form response spreadsheet URL")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Form response worksheet e.g. 'Form Responses 1'")

	return flagset
}

func (cmd *command) load() (config.Properties, error) {
	properties, err := config.Load(cmd.properties, cmd.properties != DEFAULT_PROPERTIES)
	if err != nil {
		return nil, err
	}

	properties.Overlay(os.LookupEnv, config.ServiceAccount, config.FormFilesPath, config.Spreadsheet, config.Range, config.Form)
	properties.Set(config.FormFilesPath, cmd.formFilesPath)
	properties.Set(config.Spreadsheet, cmd.spreadsheet)
	properties.Set(config.Range, cmd.area)

	if cmd.debug {
		for _, k := range []string{config.FormFilesPath, config.Spreadsheet, config.Range, config.Form} {
			if v, ok := properties.Property(k); ok {
				debugf("property  %-13v %v", k, v)
			}
		}
	}

	return properties, nil
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-15s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-15s %s\n", f.Name, f.Usage)
		})
	}
}

func required(flags map[string]string) error {
	for k, v := range flags {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("--%v is a required option", k)
		}
	}

	return nil
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
