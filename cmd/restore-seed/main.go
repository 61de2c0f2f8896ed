// restore-seed is a one-shot tool that restores the demo dataset: two
// logins, a handful of customers, and a small product catalog. Run it
// after migrations on a fresh database, or to reset a demo environment.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"salesflow/internal/config"
	"salesflow/internal/db"
)

func main() {
	_ = godotenv.Load()
	url := config.Load().DatabaseURL
	if url == "" {
		url = config.DevDatabaseURL
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring demo users...")
	_, err = tx.Exec(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES
		  ('maria', crypt('maria123', gen_salt('bf'))),
		  ('jorge', crypt('jorge123', gen_salt('bf')))
		ON CONFLICT (username) DO UPDATE
		  SET password_hash = EXCLUDED.password_hash;
	`)
	if err != nil {
		log.Fatalf("Failed to restore users: %v", err)
	}

	log.Println("Restoring customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (name, email, phone, address)
		SELECT v.name, v.email, v.phone, v.address
		FROM (VALUES
		    ('Acme Corp',        'billing@acme.example',  '555-0101', '1 Industrial Way'),
		    ('Blue Harbor Ltd',  'office@harbor.example', '555-0102', '42 Dockside Ave'),
		    ('Castillo Familia', 'casa@castillo.example', '555-0103', '9 Market Street')
		) AS v(name, email, phone, address)
		WHERE NOT EXISTS (SELECT 1 FROM customers c WHERE c.name = v.name);
	`)
	if err != nil {
		log.Fatalf("Failed to restore customers: %v", err)
	}

	log.Println("Restoring products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, description, unit_price, stock, is_active)
		SELECT v.name, v.description, v.unit_price, v.stock, true
		FROM (VALUES
		    ('Standard Widget',  'Entry-level widget',        100.00, 50),
		    ('Premium Widget',   'Reinforced casing',         250.00, 20),
		    ('Service Contract', 'One year of maintenance',   600.00, 999),
		    ('Deluxe Bundle',    'Two widgets plus service',  899.99, 10)
		) AS v(name, description, unit_price, stock)
		WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.name = v.name);
	`)
	if err != nil {
		log.Fatalf("Failed to restore products: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data restored successfully.")
	os.Exit(0)
}
