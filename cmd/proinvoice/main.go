package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env next to the binary's working directory
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		ctx := context.Background()
		a, err := app.New(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer a.Close()
		cli.SetApp(a)
	}

	return cli.Execute()
}
