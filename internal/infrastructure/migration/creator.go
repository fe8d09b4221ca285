package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`

const downTemplate = `-- {{.Name}} (rollback)
-- Created: {{.Timestamp}}

`

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)
	unsafeNameChars      = regexp.MustCompile(`[^a-z0-9]+`)
)

// MigrationFile is a generated up/down migration pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next sequentially numbered migration pair into dir
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	next, err := nextVersion(dir)
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%06d", next)
	base := filepath.Join(dir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        slug,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, err
	}
	if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

// ListMigrations returns the base names of the migrations in dir in version order
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		match := migrationFilePattern.FindStringSubmatch(e.Name())
		if e.IsDir() || match == nil || match[3] != "up" {
			continue
		}
		names = append(names, match[1]+"_"+match[2])
	}
	return names, nil
}

func nextVersion(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	highest := 0
	for _, e := range entries {
		match := migrationFilePattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		v, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func writeTemplate(path, text string, data *MigrationFile) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lower-cases name and joins its alphanumeric runs with underscores
func sanitizeName(name string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
