package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/apiclient"
	"hobbyhub-client/internal/config"
	"hobbyhub-client/internal/logging"
	"hobbyhub-client/internal/services"
	"hobbyhub-client/internal/supabase"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Service: "projectctl"})
	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
	}

	a, err := newApp(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apiclient.ErrorMessage(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	opts := []apiclient.Option{apiclient.WithLogger(log)}
	var tokens apiclient.TokenSource
	switch {
	case cfg.APIToken != "":
		tokens = apiclient.StaticToken(cfg.APIToken)
	case cfg.HasPasswordAuth():
		auth, err := supabase.NewAuthenticator(cfg)
		if err != nil {
			return nil, err
		}
		tokens = auth
	default:
		log.Warn("no HOBBYHUB_API_TOKEN or sign-in credentials configured, requests are unauthenticated")
	}
	if tokens != nil {
		opts = append(opts, apiclient.WithTokenSource(tokens))
	}
	if cfg.APICircuitBreaker {
		opts = append(opts, apiclient.WithCircuitBreaker(
			apiclient.NewCircuitBreaker("hobbyhub-api", cfg.APIBreakerFailures, log)))
	}

	client := apiclient.NewClient(cfg.APIBaseURL, opts...)
	a := &app{
		projects: apiclient.NewProjectService(client),
		files:    apiclient.NewProjectFileService(client),
		tokens:   tokens,
		out:      os.Stdout,
	}
	if cfg.HasStorage() {
		a.storage = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		a.uploads = services.NewFileUploadService(a.storage, a.files, log)
	}
	return a, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: projectctl <command> [flags]

Commands:
  list         list projects (-page -limit -search -tag -status -difficulty -visibility)
  get          show one project (-id)
  create       create a project (-title -description -tag -visibility -difficulty -hours -thumbnail -squad)
  update       change fields of a project (-id plus any create flag)
  delete       delete a project (-id, -purge-storage)
  files        list a project's files (-id)
  add-file     register a file by URL (-id -name -url -type -size -description)
  upload       upload a local file to storage and register it (-id -path -description)
  rm-file      delete a file (-id -file)
  updates      list a project's updates (-id)
  post-update  post a progress update (-id -title -content -progress -hours)
  like         toggle your like (-id)
  repost       repost a project (-id)
  token        print the bearer token in use`)
}
