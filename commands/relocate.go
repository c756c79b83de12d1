package commands

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-formfiles/config"
	"github.com/uhppoted/uhppoted-app-formfiles/form"
	"github.com/uhppoted/uhppoted-app-formfiles/relocate"
)

var RelocateCmd = Relocate{
	command: command{
		properties: DEFAULT_PROPERTIES,
		workdir:    DEFAULT_WORKDIR,
		debug:      false,
	},

	form: "",
}

type Relocate struct {
	command
	form string
}

func (cmd *Relocate) Name() string {
	return "relocate"
}

func (cmd *Relocate) Description() string {
	return "Relocates the files uploaded with all new responses to a Google Form"
}

func (cmd *Relocate) Usage() string {
	return "--properties <file> --form <form ID>"
}

func (cmd *Relocate) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] relocate [options] --form <form ID>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the responses submitted to a Google Form since the last run and relocates the uploaded")
	fmt.Println("  files of each response to the configured storage bucket. The submission time of the most recent")
	fmt.Println("  response is kept in <workdir>/<form ID>.last.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug relocate --properties formfiles.yaml --form 1FAIpQLSdF8nYGmS2v0xZ\n", APP)
	fmt.Println()
}

func (cmd *Relocate) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("relocate")

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (watermarks)")
	flagset.StringVar(&cmd.form, "form", cmd.form, "Google Form ID")

	return flagset
}

func (cmd *Relocate) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	properties, err := cmd.load()
	if err != nil {
		return err
	}

	properties.Set(config.Form, cmd.form)

	formID, ok := properties.Property(config.Form)
	if !ok {
		return fmt.Errorf("--form is a required option")
	}

	if _, err := relocate.NewSettings(properties); err != nil {
		return err
	}

	handler := relocate.NewHandler(properties, relocate.Google{}, cmd.debug)

	tokens, err := handler.Credentials().TokenSource(ctx)
	if err != nil {
		return err
	}

	google, err := forms.NewService(ctx, option.WithTokenSource(tokens))
	if err != nil {
		return fmt.Errorf("unable to create new Forms client (%v)", err)
	}

	mark := newWatermark(cmd.workdir, formID)
	since, err := mark.load()
	if err != nil {
		return err
	}

	events, err := cmd.responses(ctx, google, formID, since)
	if err != nil {
		return err
	}

	infof("form %v: %v new response(s) since %v", formID, len(events), since.Format(time.RFC3339))

	result := submit(ctx, handler, events, since, cmd.debug)

	if result.latest.After(since) {
		if err := mark.store(result.latest); err != nil {
			return fmt.Errorf("error updating watermark (%v)", err)
		}
	}

	if len(result.failed) > 0 {
		warnf("form %v: relocated:%v  failed:%v  %v", formID, result.relocated, len(result.failed), result.failed)
	} else {
		infof("form %v: relocated:%v  failed:%v", formID, result.relocated, 0)
	}

	return nil
}

type summary struct {
	relocated int
	skipped   int
	failed    []string
	latest    time.Time
}

// submit relocates the files for each response in turn. The returned latest
// submission time never moves back from 'since' and includes failed responses,
// which are listed by response ID for re-submission with 'on-submit'.
func submit(ctx context.Context, handler submitter, events []form.Event, since time.Time, debug bool) summary {
	s := summary{
		failed: []string{},
		latest: since,
	}

	for _, event := range events {
		if files := form.FileReferences(event); len(files) == 0 {
			s.skipped++
			if debug {
				debugf("response %v has no uploaded files", event.ResponseID)
			}
		} else if handler.OnFormSubmit(ctx, event) {
			s.relocated++
		} else {
			s.failed = append(s.failed, event.ResponseID)
		}

		if event.Timestamp.After(s.latest) {
			s.latest = event.Timestamp
		}
	}

	return s
}

// responses retrieves the responses submitted after 'since', sorted by
// submission time.
func (cmd *Relocate) responses(ctx context.Context, google *forms.Service, formID string, since time.Time) ([]form.Event, error) {
	f, err := google.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve form %v (%v)", formID, err)
	}

	call := google.Forms.Responses.List(formID)
	if !since.IsZero() {
		call.Filter(fmt.Sprintf("timestamp >= %v", since.UTC().Format(time.RFC3339)))
	}

	events := []form.Event{}
	err = call.Pages(ctx, func(page *forms.ListFormResponsesResponse) error {
		for _, response := range page.Responses {
			event, err := form.FromFormResponse(f, response)
			if err != nil {
				return err
			}

			if event.Timestamp.After(since) {
				events = append(events, event)
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("unable to retrieve responses for form %v (%v)", formID, err)
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })

	return events, nil
}
