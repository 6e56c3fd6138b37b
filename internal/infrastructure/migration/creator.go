package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// versionWidth matches the zero padded versions under migrations/ (000001_...)
const versionWidth = 6

var migrationTemplates = map[string]*template.Template{
	"up": template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`)),
	"down": template.Must(template.New("down").Parse(`-- Rollback: {{.Name}}
-- Created: {{.Timestamp}}

`)),
}

// MigrationFile describes a created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair numbered one past the highest
// existing version in migrationsDir.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, base := range existing {
		if v, ok := parseVersion(base); ok && v >= next {
			next = v + 1
		}
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	base := filepath.Join(migrationsDir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeTemplate(mf.UpPath, "up", mf); err != nil {
		return nil, err
	}
	if err := writeTemplate(mf.DownPath, "down", mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeTemplate(path, kind string, mf *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s migration: %w", kind, err)
	}
	defer f.Close()

	if err := migrationTemplates[kind].Execute(f, mf); err != nil {
		return fmt.Errorf("failed to render %s migration: %w", kind, err)
	}
	return nil
}

func parseVersion(base string) (int, bool) {
	prefix, _, found := strings.Cut(base, "_")
	if !found {
		return 0, false
	}
	v, err := strconv.Atoi(prefix)
	return v, err == nil
}

// sanitizeName lowercases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the base names of the up migrations in migrationsDir, sorted
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok && !entry.IsDir() {
			migrations = append(migrations, base)
		}
	}
	slices.Sort(migrations)
	return migrations, nil
}
