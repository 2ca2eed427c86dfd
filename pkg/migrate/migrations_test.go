package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trinitystore/trinity-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInvoiceMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_invoices.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no invoice migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"id BIGSERIAL PRIMARY KEY",
		"REFERENCES customers (id)",
		"REFERENCES invoices (id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"DROP TABLE invoice_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Loyalty Points")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("migration written outside dir: %s", path)
	}
	if !strings.HasSuffix(path, "_add_loyalty_points.sql") {
		t.Fatalf("unexpected filename %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(data), "-- +goose Up") {
		t.Fatal("template missing goose Up marker")
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
