package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-admin <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := services.NewUserService(db)

	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, services.ErrNotFound) {
		slog.Error("no user found", "email", email)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		os.Exit(1)
	}

	if err := users.SetGlobalRole(ctx, user.ID, models.GlobalRoleSuperAdmin); err != nil {
		slog.Error("failed to update user", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully promoted %s to super admin\n", email)
}
