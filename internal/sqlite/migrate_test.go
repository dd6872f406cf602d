package sqlite_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"winsbygroup.com/leadbook/internal/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsApplyCleanly(t *testing.T) {
	db := openDB(t)

	if err := sqlite.RunMigrations(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var name string
	row := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='users';`)
	if err := row.Scan(&name); err != nil {
		t.Fatalf("expected users table to exist: %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openDB(t)

	for i := 0; i < 2; i++ {
		if err := sqlite.RunMigrations(db); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var steps int
	if err := db.QueryRow(`SELECT COUNT(*) FROM darwin_migrations;`).Scan(&steps); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if steps != 2 {
		t.Errorf("expected 2 applied steps, got %d", steps)
	}
}

func TestUsersColumnsDefaultToEmpty(t *testing.T) {
	db := openDB(t)
	if err := sqlite.RunMigrations(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO users (contact_name) VALUES ('A')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var action, email string
	if err := db.QueryRow(`SELECT action, email FROM users`).Scan(&action, &email); err != nil {
		t.Fatalf("select: %v", err)
	}
	if action != "" || email != "" {
		t.Errorf("expected empty defaults, got action=%q email=%q", action, email)
	}
}

func TestMigrationsSetsApplicationID(t *testing.T) {
	db := openDB(t)

	if err := sqlite.RunMigrations(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		t.Fatalf("read application_id: %v", err)
	}
	if appID != sqlite.ApplicationID {
		t.Errorf("expected application_id 0x%X, got 0x%X", sqlite.ApplicationID, appID)
	}
}

func TestVerifyApplicationID(t *testing.T) {
	t.Run("accepts new database", func(t *testing.T) {
		if err := sqlite.VerifyApplicationID(openDB(t)); err != nil {
			t.Errorf("expected no error for new database, got %v", err)
		}
	})

	t.Run("rejects database with wrong appID", func(t *testing.T) {
		db := openDB(t)
		if err := sqlite.RunMigrations(db); err != nil {
			t.Fatalf("migrations failed: %v", err)
		}
		if _, err := db.Exec("PRAGMA application_id = 305419896;"); err != nil { // 0x12345678
			t.Fatalf("set application_id: %v", err)
		}

		err := sqlite.VerifyApplicationID(db)
		if !errors.Is(err, sqlite.ErrInvalidDatabase) {
			t.Errorf("expected ErrInvalidDatabase, got %v", err)
		}
	})

	t.Run("rejects database with tables but no appID", func(t *testing.T) {
		db := openDB(t)
		if _, err := db.Exec("CREATE TABLE other_app (id INTEGER);"); err != nil {
			t.Fatalf("create table: %v", err)
		}

		err := sqlite.VerifyApplicationID(db)
		if !errors.Is(err, sqlite.ErrInvalidDatabase) {
			t.Errorf("expected ErrInvalidDatabase, got %v", err)
		}
	})
}

func TestSchemaListsUsersTable(t *testing.T) {
	s := sqlite.Schema()
	if !strings.Contains(s, "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("schema missing users table:\n%s", s)
	}
}
