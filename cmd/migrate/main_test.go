package main

import (
	"testing"
	"testing/fstest"
)

func TestReadMigrationsEmbedded(t *testing.T) {
	migrations, err := readMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}
	if migrations[0].version != 1 || migrations[0].name != "create_articles" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].version != 2 || migrations[1].name != "add_article_indexes" {
		t.Fatalf("unexpected second migration: %+v", migrations[1])
	}
	for _, m := range migrations {
		if m.up == "" || m.down == "" {
			t.Fatalf("migration %d missing up or down sql", m.version)
		}
	}
}

func TestReadMigrationsRejectsMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE t (id INT);")},
	}
	if _, err := readMigrations(fsys); err == nil {
		t.Fatal("expected error for missing down file")
	}
}

func TestReadMigrationsRejectsBadFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/oops.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := readMigrations(fsys); err == nil {
		t.Fatal("expected error for unparseable filename")
	}
}

func TestReadMigrationsRejectsMismatchedNames(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"migrations/0001_second.down.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := readMigrations(fsys); err == nil {
		t.Fatal("expected error for mismatched names in one version")
	}
}

func TestVersionSet(t *testing.T) {
	set := versionSet([]int64{1, 2})
	if _, ok := set[1]; !ok {
		t.Fatal("expected version 1 in set")
	}
	if _, ok := set[3]; ok {
		t.Fatal("did not expect version 3 in set")
	}
}
