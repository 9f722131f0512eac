package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/tokens"
	"github.com/mrlokans/bookcatalog/internal/database/users"
)

// CreateUserCommand registers a user from the command line, bypassing the
// web form. The same validation rules apply.
type CreateUserCommand struct {
	Name     string
	Username string
	Password string
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Display name (required)")
	fs.StringVar(&cmd.Username, "username", "", "Unique username, alphanumeric, at least 3 characters (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 8 characters (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account against the configured database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -name \"Jane Doe\" -username jane -password secretpass\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	data := auth.RegisterData{
		Name:            cmd.Name,
		Username:        cmd.Username,
		Password:        cmd.Password,
		ConfirmPassword: cmd.Password,
	}
	if violations := data.Validate(); len(violations) > 0 {
		fs.Usage()
		return fmt.Errorf("%s", auth.Reasons(violations))
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), tokens.NewRepository(db.DB), cfg.Auth)
	user, err := service.CreateUser(context.Background(), cmd.Name, cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %q (id %d)\n", user.Username, user.ID)
	return nil
}
