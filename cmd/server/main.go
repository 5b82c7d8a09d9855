// Package main is the entry point for the postboard server.
//
// The main package stays minimal: load configuration, build the logger, hand
// both to internal/server. All actual logic lives in internal/.
//
// Configuration comes from the environment (optionally a .env file in the
// working directory); command-line flags override it:
//
//	postboard --port 8080 --driver gorm-sqlite --db data/dev.db --seed
//	postboard migrate --driver postgres --dsn "host=localhost dbname=postboard"
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
