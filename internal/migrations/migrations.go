package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// Run creates the database schema required for the POS backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}

// EnsureOwner upserts the shared owner account with a bcrypt hash of the
// configured password, so a changed OWNER_PASSWORD takes effect on restart.
func EnsureOwner(db *sqlx.DB, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("unable to hash owner password: %v", err)
	}
	_, err = db.Exec(`INSERT INTO users (username, password, role) VALUES ('owner', ?, 'owner')
        ON CONFLICT(username) DO UPDATE SET password = excluded.password`, hashed)
	if err != nil {
		log.Fatalf("unable to seed owner account: %v", err)
	}
}
