package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const usage = "usage: migrate <up|down [steps]|status|version>"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationFile = regexp.MustCompile(`^migrations/(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

// migration pairs the up and down SQL for one version of the articles schema.
type migration struct {
	version int64
	name    string
	up      string
	down    string
}

func main() {
	loadEnvFunc()

	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`); err != nil {
		log.Fatalf("ensure schema_migrations: %v", err)
	}

	migrations, err := readMigrations(migrationsFS)
	if err != nil {
		log.Fatalf("read migrations: %v", err)
	}

	switch os.Args[1] {
	case "up":
		n, err := migrateUp(ctx, pool, migrations)
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Printf("schema up to date (%d applied)", n)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n <= 0 {
				log.Fatalf("invalid step count %q", os.Args[2])
			}
			steps = n
		}
		n, err := migrateDown(ctx, pool, migrations, steps)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Printf("rolled back %d migration(s)", n)
	case "status":
		applied, err := appliedVersions(ctx, pool)
		if err != nil {
			log.Fatalf("read applied versions: %v", err)
		}
		appliedSet := versionSet(applied)
		for _, m := range migrations {
			state := "pending"
			if _, ok := appliedSet[m.version]; ok {
				state = "applied"
			}
			fmt.Printf("%04d_%s\t%s\n", m.version, m.name, state)
		}
	case "version":
		applied, err := appliedVersions(ctx, pool)
		if err != nil {
			log.Fatalf("read applied versions: %v", err)
		}
		if len(applied) == 0 {
			log.Println("no migrations applied")
			return
		}
		current := applied[len(applied)-1]
		name := "unknown"
		for _, m := range migrations {
			if m.version == current {
				name = m.name
			}
		}
		log.Printf("current version: %d (%s)", current, name)
	default:
		log.Fatalf("unknown command %q. %s", os.Args[1], usage)
	}
}

func readMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int64]*migration)
	for _, p := range paths {
		parts := migrationFile.FindStringSubmatch(p)
		if parts == nil {
			return nil, fmt.Errorf("unexpected migration filename %s", p)
		}
		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version of %s: %w", p, err)
		}

		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		sqlText := strings.TrimSpace(string(body))
		if sqlText == "" {
			return nil, fmt.Errorf("migration %s is empty", p)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{version: version, name: parts[2]}
			byVersion[version] = m
		}
		if m.name != parts[2] {
			return nil, fmt.Errorf("version %d named both %s and %s", version, m.name, parts[2])
		}
		if parts[3] == "up" {
			if m.up != "" {
				return nil, fmt.Errorf("version %d has two up files", version)
			}
			m.up = sqlText
		} else {
			if m.down != "" {
				return nil, fmt.Errorf("version %d has two down files", version)
			}
			m.down = sqlText
		}
	}
	if len(byVersion) == 0 {
		return nil, errors.New("no migration files embedded")
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" || m.down == "" {
			return nil, fmt.Errorf("version %d needs both up and down files", m.version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) ([]int64, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func versionSet(versions []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(versions))
	for _, v := range versions {
		set[v] = struct{}{}
	}
	return set
}

// applyOne runs a migration statement plus its bookkeeping row in a single
// transaction.
func applyOne(ctx context.Context, pool *pgxpool.Pool, migSQL, bookSQL string, args ...any) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, bookSQL, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool, migrations []migration) (int, error) {
	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return 0, err
	}
	appliedSet := versionSet(applied)

	count := 0
	for _, m := range migrations {
		if _, ok := appliedSet[m.version]; ok {
			continue
		}
		err := applyOne(ctx, pool, m.up,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name)
		if err != nil {
			return count, fmt.Errorf("version %d (%s) up: %w", m.version, m.name, err)
		}
		log.Printf("applied %d_%s", m.version, m.name)
		count++
	}
	return count, nil
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool, migrations []migration, steps int) (int, error) {
	byVersion := make(map[int64]migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.version] = m
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(applied) - 1; i >= 0 && count < steps; i-- {
		m, ok := byVersion[applied[i]]
		if !ok {
			return count, fmt.Errorf("no source for applied version %d", applied[i])
		}
		err := applyOne(ctx, pool, m.down,
			`DELETE FROM schema_migrations WHERE version = $1`, m.version)
		if err != nil {
			return count, fmt.Errorf("version %d (%s) down: %w", m.version, m.name, err)
		}
		log.Printf("rolled back %d_%s", m.version, m.name)
		count++
	}
	return count, nil
}
