package main

import (
	"log"

	"customer-portal/pkg/config"
	"customer-portal/pkg/database/postgresql"
	"customer-portal/seeders"
)

func main() {
	cfg := config.New()
	log.Println("seeding database:", cfg.Postgres.DSN)

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	seeders.SeedAdmin(pool)
}
