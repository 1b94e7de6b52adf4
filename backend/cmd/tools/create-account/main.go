// create-account adds a staff account or resets the password and role of an
// existing one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/itchan-dev/modcore/backend/internal/storage/pg"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/crypto"
	"github.com/itchan-dev/modcore/shared/domain"
)

func main() {
	var configFolder, username, password string
	var role int
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&username, "username", "", "account name")
	flag.StringVar(&password, "password", "", "account password")
	flag.IntVar(&role, "role", domain.RoleModerator, "1 janitor, 2 moderator, 3 admin")
	flag.Parse()

	if username == "" || password == "" {
		log.Fatal("username and password are required")
	}
	if domain.RoleName(role) == "" {
		log.Fatalf("unknown role %d", role)
	}

	cfg := config.MustLoad(configFolder)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := pg.New(ctx, cfg.Pg())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer storage.Cleanup()

	hash, err := crypto.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := storage.SaveAccount(ctx, domain.Account{Username: username, PasswordHash: hash, Role: role}); err != nil {
		log.Fatalf("Failed to save account: %v", err)
	}

	fmt.Printf("Account %s saved with role %s\n", username, domain.RoleName(role))
}
