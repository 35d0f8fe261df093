package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/go-ngfmt/internal/log"
	"github.com/grindlemire/go-ngfmt/internal/lsp"
)

func runLSP(args []string) error {
	fs := flag.NewFlagSet("lsp", flag.ExitOnError)
	logPath := fs.String("log", "", "Path to log file for debugging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *logPath != "" {
		logFile, err := log.OpenFile(*logPath)
		if err != nil {
			return err
		}
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Server("starting on stdio")
	return lsp.Serve(ctx, lsp.Stdio())
}
