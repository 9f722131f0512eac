package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/tokens"
	"github.com/mrlokans/bookcatalog/internal/database/users"
)

// RevokeTokensCommand invalidates every API token of a user. Clients
// holding a revoked token get 401 on the next request.
type RevokeTokensCommand struct {
	Username string
}

func NewRevokeTokensCommand() *RevokeTokensCommand {
	return &RevokeTokensCommand{}
}

func (cmd *RevokeTokensCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("revoke-tokens", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username whose tokens to revoke (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s revoke-tokens [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete all API tokens issued to a user.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s revoke-tokens -username jane\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		fs.Usage()
		return errors.New("username is required")
	}

	return nil
}

func (cmd *RevokeTokensCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := users.NewRepository(db.DB)
	user, err := userRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("no such user: %s", cmd.Username)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	tokenRepo := tokens.NewRepository(db.DB)
	revoked, err := tokenRepo.DeleteForUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	fmt.Printf("Revoked %d token(s) for user %q\n", revoked, user.Username)
	return nil
}
