package main

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrations ship inside the binary so deployments need no migration files
// on disk.
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migration filename standard: 001_migration_name.up.sql or 001_migration_name.down.sql.
var migrationFilenameRegex = regexp.MustCompile(`^(\d{3})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// MigrationInfo contains parsed information about a migration file.
type MigrationInfo struct {
	Sequence  int
	Name      string
	Direction string // "up" or "down"
	Filename  string
}

// newMigrationSource returns the embedded migration source for golang-migrate.
func newMigrationSource() (source.Driver, error) {
	return iofs.New(embeddedMigrations, "migrations")
}

// listEmbeddedMigrations returns the embedded migration filenames, sorted.
// Files that do not match the naming standard are rejected rather than
// silently skipped, to catch mistakes at build time via the tests.
func listEmbeddedMigrations() ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		if !migrationFilenameRegex.MatchString(filename) {
			return nil, fmt.Errorf("invalid migration filename: %s (expected: 001_name.up.sql or 001_name.down.sql)", filename)
		}

		files = append(files, filename)
	}

	sort.Strings(files)

	return files, nil
}

// validateEmbeddedMigrations checks the embedded set for up/down pairing and
// a gapless sequence starting at 001.
func validateEmbeddedMigrations() error {
	files, err := listEmbeddedMigrations()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no embedded migration files found")
	}

	if err := validatePairing(files); err != nil {
		return err
	}

	return validateSequence(files)
}

// parseMigrationFilename parses a migration filename into its components.
func parseMigrationFilename(filename string) (*MigrationInfo, error) {
	matches := migrationFilenameRegex.FindStringSubmatch(filename)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	sequence, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid sequence number in filename %s: %w", filename, err)
	}

	return &MigrationInfo{
		Sequence:  sequence,
		Name:      matches[2],
		Direction: matches[3],
		Filename:  filename,
	}, nil
}

// validatePairing ensures every up migration has a matching down migration.
func validatePairing(files []string) error {
	migrations := make(map[string]map[string]*MigrationInfo)

	for _, file := range files {
		migration, err := parseMigrationFilename(file)
		if err != nil {
			return err
		}

		key := fmt.Sprintf("%03d_%s", migration.Sequence, migration.Name)
		if migrations[key] == nil {
			migrations[key] = make(map[string]*MigrationInfo)
		}

		migrations[key][migration.Direction] = migration
	}

	for key, directions := range migrations {
		if _, hasUp := directions["up"]; !hasUp {
			return fmt.Errorf("orphaned down migration: missing up migration for %s", key)
		}

		if _, hasDown := directions["down"]; !hasDown {
			return fmt.Errorf("orphaned up migration: missing down migration for %s", key)
		}
	}

	return nil
}

// validateSequence ensures there are no gaps in the migration sequence.
func validateSequence(files []string) error {
	sequences := make(map[int]bool)

	for _, file := range files {
		migration, err := parseMigrationFilename(file)
		if err != nil {
			return err
		}

		sequences[migration.Sequence] = true
	}

	var sequenceNumbers []int
	for seq := range sequences {
		sequenceNumbers = append(sequenceNumbers, seq)
	}

	sort.Ints(sequenceNumbers)

	if len(sequenceNumbers) == 0 {
		return nil
	}

	if sequenceNumbers[0] != 1 {
		return fmt.Errorf("migration sequence should start with 001, but found %03d", sequenceNumbers[0])
	}

	for i := 1; i < len(sequenceNumbers); i++ {
		if sequenceNumbers[i] != sequenceNumbers[i-1]+1 {
			return fmt.Errorf("gap in migration sequence: expected %03d, found %03d",
				sequenceNumbers[i-1]+1, sequenceNumbers[i])
		}
	}

	return nil
}
