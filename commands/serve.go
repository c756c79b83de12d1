package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uhppoted/uhppoted-app-formfiles/form"
	"github.com/uhppoted/uhppoted-app-formfiles/relocate"
)

var ServeCmd = Serve{
	command: command{
		properties: DEFAULT_PROPERTIES,
		workdir:    DEFAULT_WORKDIR,
		debug:      false,
	},

	bind: "127.0.0.1:8080",
}

type Serve struct {
	command
	bind string
}

type submitter interface {
	OnFormSubmit(ctx context.Context, event form.Event) bool
}

func (cmd *Serve) Name() string {
	return "serve"
}

func (cmd *Serve) Description() string {
	return "Runs an HTTP server that relocates the files uploaded with posted form submissions"
}

func (cmd *Serve) Usage() string {
	return "--properties <file> --bind <address>"
}

func (cmd *Serve) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] serve [options]\n", APP)
	fmt.Println()
	fmt.Println("  Accepts form submission events posted to /submit and relocates the uploaded files. Relocation")
	fmt.Println("  metrics are served in the Prometheus exposition format at /metrics.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug serve --properties formfiles.yaml --bind 0.0.0.0:8080\n", APP)
	fmt.Println()
}

func (cmd *Serve) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("serve")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "HTTP server bind address")

	return flagset
}

func (cmd *Serve) Execute(args ...any) error {
	ctx := args[0].(context.Context)
	options := args[1].(*Options)

	cmd.debug = options.Debug

	properties, err := cmd.load()
	if err != nil {
		return err
	}

	if _, err := relocate.NewSettings(properties); err != nil {
		return err
	}

	handler := relocate.NewHandler(properties, relocate.Google{}, cmd.debug)
	srv := http.Server{
		Addr:              cmd.bind,
		Handler:           mux(handler, handler.Metrics().Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		srv.Shutdown(shutdown)
	}()

	infof("listening on %v", cmd.bind)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error (%v)", err)
	}

	infof("stopped")

	return nil
}

func mux(handler submitter, metrics http.Handler) *http.ServeMux {
	m := http.NewServeMux()

	m.Handle("GET /metrics", metrics)
	m.HandleFunc("POST /submit", func(w http.ResponseWriter, rq *http.Request) {
		event, err := form.ReadEvent(http.MaxBytesReader(w, rq.Body, 1024*1024))
		if err != nil {
			warnf("%v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if handler.OnFormSubmit(context.WithoutCancel(rq.Context()), event) {
			fmt.Fprintln(w, "ok")
		} else {
			fmt.Fprintln(w, "failed")
		}
	})

	return m
}
