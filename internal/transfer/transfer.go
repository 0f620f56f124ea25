// Package transfer moves the liftlog document in and out of files:
// full JSON backups, per-set CSV exports and validated JSON imports.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
	"github.com/balkashynov/liftlog/internal/storage"
)

var (
	// ErrInvalidJSON means the import file is not JSON at all
	ErrInvalidJSON = errors.New("invalid JSON file")
	// ErrInvalidShape means the file is JSON but not a liftlog export
	ErrInvalidShape = errors.New("this does not look like a valid liftlog export (expected version=1)")
)

var csvHeader = []string{"date", "template", "exercise", "setIndex", "reps", "weightKg", "volume"}

// ExportJSON renders the whole document with two-space indentation
func ExportJSON(doc models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCSV renders one row per performed set, in session order
func ExportCSV(sessions []models.WorkoutSession) []byte {
	var b strings.Builder
	writeRow(&b, csvHeader)
	for _, s := range sessions {
		for _, e := range s.Entries {
			for i, set := range e.Sets {
				b.WriteByte('\n')
				writeRow(&b, []string{
					s.DateISO,
					s.TemplateName,
					e.ExerciseName,
					strconv.Itoa(i + 1),
					parser.FormatOptional(set.Reps, ""),
					parser.FormatOptional(set.WeightKg, ""),
					parser.FormatNumber(progress.SetVolume(set)),
				})
			}
		}
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCell(c))
	}
}

func escapeCell(v string) string {
	if !strings.ContainsAny(v, "\",\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ParseImport validates an export file and decodes it.
// Errors are ErrInvalidJSON or ErrInvalidShape, possibly wrapped.
func ParseImport(data []byte) (models.Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		// valid JSON that is not an object is a shape problem
		if json.Valid(data) {
			return models.Document{}, ErrInvalidShape
		}
		return models.Document{}, ErrInvalidJSON
	}

	var version float64
	if err := json.Unmarshal(top["version"], &version); err != nil || version != models.DocumentVersion {
		return models.Document{}, ErrInvalidShape
	}
	for _, field := range []string{"exercises", "templates", "sessions"} {
		raw := bytes.TrimSpace(top[field])
		if len(raw) == 0 || raw[0] != '[' {
			return models.Document{}, fmt.Errorf("%w: %q is not a list", ErrInvalidShape, field)
		}
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	doc.Version = models.DocumentVersion
	doc.Sessions = storage.DedupeSessions(doc.Sessions)
	return doc, nil
}

// BackupFileName names a JSON export taken at now
func BackupFileName(now time.Time) string {
	return "workouts-" + now.UTC().Format(models.DateLayout) + ".json"
}

// CSVFileName names a CSV export taken at now
func CSVFileName(now time.Time) string {
	return "workout-sessions-" + now.UTC().Format(models.DateLayout) + ".csv"
}

// WriteBackup stores a JSON export of doc in dir and returns its path.
// An existing backup from the same day is kept; the new file gets a numeric suffix.
func WriteBackup(dir string, doc models.Document, now time.Time) (string, error) {
	data, err := ExportJSON(doc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := BackupFileName(now)
	path := filepath.Join(dir, name)
	base := strings.TrimSuffix(name, ".json")
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.json", base, n))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
