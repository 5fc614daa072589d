package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Pair is the up/down file pair for one schema change.
type Pair struct {
	Version  string
	Slug     string
	UpPath   string
	DownPath string
}

// Base returns the shared file name without the .up.sql/.down.sql suffix.
func (p *Pair) Base() string {
	return p.Version + "_" + p.Slug
}

// Scaffold writes an empty up/down migration pair into dir. The version
// prefix is the current UTC time so files sort in creation order.
func Scaffold(dir, name, notes string) (*Pair, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if notes == "" {
		notes = name
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	p := &Pair{
		Version: time.Now().UTC().Format("20060102150405"),
		Slug:    slug,
	}
	p.UpPath = filepath.Join(dir, p.Base()+".up.sql")
	p.DownPath = filepath.Join(dir, p.Base()+".down.sql")

	up := fmt.Sprintf("-- %s %s\n-- %s\n\n", p.Version, p.Slug, notes)
	down := fmt.Sprintf("-- %s %s (down)\n-- %s\n\n", p.Version, p.Slug, notes)

	if err := os.WriteFile(p.UpPath, []byte(up), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", p.UpPath, err)
	}
	if err := os.WriteFile(p.DownPath, []byte(down), 0644); err != nil {
		os.Remove(p.UpPath)
		return nil, fmt.Errorf("write %s: %w", p.DownPath, err)
	}

	return p, nil
}

// slugify lowercases name and collapses anything that is not a letter
// or digit into single underscores.
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

// List returns the base names of the migration pairs in dir, sorted by
// version. A missing directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
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

	sort.Strings(names)
	return names, nil
}
