// Command createadmin bootstraps an administrator account.
//
// Usage: createadmin <username> <email> <password>
//
// Registration always yields the user role; this is the only way to mint
// an admin.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/infrastructure/config"
	"github.com/sweetshop/inventory-system/internal/infrastructure/db/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: createadmin <username> <email> <password>")
		os.Exit(1)
	}
	username, email, password := os.Args[1], os.Args[2], os.Args[3]

	cfg := config.Load()

	db, err := postgres.Connect(cfg.Postgres.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}

	repo := postgres.NewAuthRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}
	if exists {
		fmt.Fprintln(os.Stderr, "user with this username or email already exists")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	if _, err := repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("admin user %q created\n", username)
}
