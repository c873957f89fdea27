package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

const upStub = `-- {{.Name}}
-- created {{.Timestamp}}{{if .Description}}
-- {{.Description}}{{end}}

`

const downStub = `-- revert: {{.Name}}
-- created {{.Timestamp}}

`

// MigrationFile describes a freshly created up/down pair on disk.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down SQL pair into migrationsDir,
// versioned by the current timestamp so files sort in creation order.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := version + "_" + sanitizeName(name)

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
		UpPath:      filepath.Join(migrationsDir, base+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, base+".down.sql"),
	}

	if err := writeStub(mf.UpPath, upStub, mf); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}
	if err := writeStub(mf.DownPath, downStub, mf); err != nil {
		// keep the pair atomic
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}

	return mf, nil
}

func writeStub(path, stub string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(stub)
	if err != nil {
		return fmt.Errorf("parse stub template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName lowers a human migration name into snake_case suitable
// for a file name. Characters outside [a-z0-9_] are dropped.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '-' || c == '_':
			s := b.String()
			if len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of every up/down pair found in
// migrationsDir, in directory order. A missing directory is treated as
// empty rather than an error.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	return names, nil
}
