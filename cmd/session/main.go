package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/persistence"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
)

// session manages the persisted session of a desk from the command line:
//
//	session login -token <bearer> -name <name> -email <email>
//	session logout
//	session ledger
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: session login|logout|ledger [flags]")
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, closeStore, err := persistence.OpenSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open session store", "error", err)
		return 1
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error("Failed to close session store", "error", err)
		}
	}()
	session := usecase.NewSessionStore(kv)

	switch args[0] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		token := fs.String("token", "", "bearer token issued by the flight API")
		name := fs.String("name", "", "traveller name")
		email := fs.String("email", "", "traveller email")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if *token == "" {
			log.Error("A token is required")
			return 2
		}
		if err := session.SaveLogin(ctx, *token, entity.User{Name: *name, Email: *email}); err != nil {
			log.Error("Failed to store login", "error", err)
			return 1
		}
		log.Info("Login stored", "session", cfg.SessionID, "email", *email)

	case "logout":
		if err := session.Logout(ctx); err != nil {
			log.Error("Failed to log out", "error", err)
			return 1
		}
		log.Info("Logged out", "session", cfg.SessionID)

	case "ledger":
		ledger, err := session.Reservations(ctx)
		if err != nil {
			log.Error("Failed to read reservations", "error", err)
			return 1
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ledger); err != nil {
			log.Error("Failed to print reservations", "error", err)
			return 1
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		return 2
	}
	return 0
}
