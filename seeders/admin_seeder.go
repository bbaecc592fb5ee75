package seeders

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/pkg/constants"
	"customer-portal/pkg/utils"
)

// SeedAdmin creates the bootstrap admin account if it does not exist.
// Every other account is created through invite-code registration.
func SeedAdmin(pool *pgxpool.Pool) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seeder")
		return
	}

	ctx := context.Background()

	var exists bool
	err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		log.Fatalf("admin seeder: existence check failed: %v", err)
	}
	if exists {
		log.Printf("admin seeder: user %q already present, nothing to do", username)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("admin seeder: hashing failed: %v", err)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO users (username, password_hash, role, active) VALUES ($1, $2, $3, true)",
		username, hash, string(constants.RoleAdmin))
	if err != nil {
		log.Fatalf("admin seeder: insert failed: %v", err)
	}
	log.Printf("admin seeder: created admin %q", username)
}
