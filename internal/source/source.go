// Package source imports solution files from a local directory or a git
// repository into the local snapshot cache. Files are matched by the
// "NNNN-title.ext" naming convention used by solution archives.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/neelbansal/leetion/internal/domain"
	"github.com/neelbansal/leetion/internal/notion"
	"github.com/neelbansal/leetion/internal/storage"
)

// solutionFile matches names like "0042-trapping-rain-water.py" or
// "121_best_time_to_buy.go".
var solutionFile = regexp.MustCompile(`^(\d{1,5})[-_.]`)

// extLanguages maps file extensions to the editor language names the sync
// understands.
var extLanguages = map[string]string{
	".py":    "Python3",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".java":  "Java",
	".cpp":   "C++",
	".cc":    "C++",
	".c":     "C",
	".cs":    "C#",
	".rb":    "Ruby",
	".swift": "Swift",
	".go":    "Go",
	".kt":    "Kotlin",
	".rs":    "Rust",
	".scala": "Scala",
	".php":   "PHP",
	".dart":  "Dart",
	".rkt":   "Racket",
	".erl":   "Erlang",
	".ex":    "Elixir",
	".sql":   "MySQL",
}

// Report summarizes one import run.
type Report struct {
	Scanned  int
	Imported int
	Skipped  int
	Errors   []error
}

// ImportDir walks a directory tree and stores every recognized solution file
// as a snapshot. Files whose code is already cached for the same problem are
// skipped. Unparseable files are counted, reported, and do not stop the walk.
func ImportDir(db *storage.DB, dir string, logger zerolog.Logger) (Report, error) {
	var report Report

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Solution archives keep their tooling in dot-directories.
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		language, ok := extLanguages[strings.ToLower(filepath.Ext(d.Name()))]
		if !ok {
			return nil
		}
		m := solutionFile.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		report.Scanned++

		number, err := strconv.Atoi(m[1])
		if err != nil || number == 0 {
			report.Skipped++
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("reading %s: %w", path, err))
			return nil
		}
		info, err := d.Info()
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("stat %s: %w", path, err))
			return nil
		}

		inserted, err := db.InsertSnapshot(number, domain.Snapshot{
			ID:        uuid.NewString(),
			Code:      notion.CleanCode(string(data)),
			Language:  language,
			Timestamp: info.ModTime(),
			Type:      domain.SnapshotSolution,
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("caching %s: %w", path, err))
			return nil
		}
		if inserted {
			report.Imported++
			logger.Debug().Str("file", d.Name()).Int("problem", number).Msg("imported solution")
		} else {
			report.Skipped++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walking %s: %w", dir, err)
	}

	logger.Info().
		Int("scanned", report.Scanned).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("import complete")
	return report, nil
}
