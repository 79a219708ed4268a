package shared

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) != 2 {
			t.Fatalf("expected 2 migrations, got %d", len(migrations))
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_guitars" {
			t.Errorf("expected first migration create_guitars, got %s", migrations[0].Name)
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(MemoryPath)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		version, err := CurrentVersion(db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if version != 2 {
			t.Errorf("expected version 2, got %d", version)
		}

		for _, table := range []string{"guitars", "service_records"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM service_records LIMIT 1"); err == nil {
			t.Error("service_records should be dropped after rollback")
		}
		if _, err := db.Exec("SELECT 1 FROM guitars LIMIT 1"); err != nil {
			t.Errorf("guitars should survive a single rollback: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback second migration: %v", err)
		}

		if err := RollbackMigration(db); !errors.Is(err, ErrNoMigrations) {
			t.Errorf("expected ErrNoMigrations, got %v", err)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(MemoryPath)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenStore", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "fretlog.db")
		db, err := OpenStore(DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("SELECT 1 FROM guitars LIMIT 1"); err != nil {
			t.Errorf("guitars table should exist: %v", err)
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- header\nCREATE TABLE t (id INTEGER); -- trailing\n\n")
	if got != "CREATE TABLE t (id INTEGER);" {
		t.Errorf("removeComments() = %q", got)
	}
}
