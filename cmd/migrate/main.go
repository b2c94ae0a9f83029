package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"meow-site/pkg/config"
	"meow-site/pkg/database"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with migration files")
		command = flag.String("command", "up", "migration command (up, down, status, create)")
		name    = flag.String("name", "", "name for new migration (used with create command)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, dialect, err := openDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect(dialect); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "create":
		if *name == "" {
			log.Fatal("Name is required for create command")
		}
		if err := goose.Create(db, *dir, *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Created migration: %s\n", *name)
	case "up":
		if err := goose.Up(db, *dir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, *dir); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, *dir); err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}

// openDB returns a raw connection and the goose dialect for DB_DRIVER.
// Postgres goes through lib/pq; the other drivers reuse the GORM connection.
func openDB(cfg *config.Config) (*sql.DB, string, error) {
	switch cfg.DBDriver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)
		db, err := sql.Open("postgres", dsn)
		return db, "postgres", err
	case "mysql", "sqlite":
		gormDB, err := database.Open(cfg)
		if err != nil {
			return nil, "", err
		}
		db, err := gormDB.DB()
		if err != nil {
			return nil, "", err
		}
		dialect := "mysql"
		if cfg.DBDriver == "sqlite" {
			dialect = "sqlite3"
		}
		return db, dialect, nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
