package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/intesigroup/user-registry/config"
)

type seedUser struct {
	username string
	email    string
	cf       string
	nome     string
	cognome  string
	roles    string // postgres array literal
}

// Seeds a few users for local development. Existing emails are left alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := []seedUser{
		{"mrossi", "m.rossi@example.com", "RSSMRA80A01H501U", "Mario", "Rossi", "{OWNER}"},
		{"lbianchi", "l.bianchi@example.com", "BNCLGU85T10A562Y", "Luigi", "Bianchi", "{MAINTAINER,DEVELOPER}"},
		{"averdi", "a.verdi@example.com", "VRDNNA90D41F205S", "Anna", "Verdi", "{REPORTER}"},
	}

	for _, su := range users {
		now := time.Now().UTC()
		res, err := db.Exec(`
			INSERT INTO users (id, username, email, codice_fiscale, nome, cognome, roles, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'ACTIVE', $8, $8)
			ON CONFLICT ON CONSTRAINT uk_users_email DO NOTHING
		`, uuid.NewString(), su.username, su.email, su.cf, su.nome, su.cognome, su.roles, now)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", su.email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			fmt.Printf("seeded user %s (%s)\n", su.username, su.email)
		} else {
			fmt.Printf("user %s already present, skipped\n", su.email)
		}
	}
}
