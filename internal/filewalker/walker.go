package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"l10n-stats/internal/parser"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Walker discovers the files a parser handles under a root directory.
type Walker struct {
	fs      afero.Fs
	parser  parser.Parser
	exclude []string
}

// NewWalker creates a Walker for p over fsys, the OS filesystem when nil.
// Files whose slash-separated path relative to the root starts with one of
// exclude are skipped.
func NewWalker(fsys afero.Fs, p parser.Parser, exclude ...string) *Walker {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	var cleaned []string
	for _, e := range exclude {
		e = strings.Trim(filepath.ToSlash(strings.TrimSpace(e)), "/")
		if e != "" {
			cleaned = append(cleaned, e)
		}
	}
	return &Walker{fs: fsys, parser: p, exclude: cleaned}
}

// Walk returns the sorted paths of every matching file under root. Any error
// while walking is returned.
func (w *Walker) Walk(root string) ([]string, error) {
	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var files []string

	err = afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel != "." && w.excluded(filepath.ToSlash(rel)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			// Version control metadata never holds translation files.
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if w.parser.CanParse(ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(files)

	log.Debug().Int("count", len(files)).Str("root", root).Str("format", w.parser.Format()).Msg("Discovered files")
	return files, nil
}

func (w *Walker) excluded(rel string) bool {
	for _, e := range w.exclude {
		if rel == e || strings.HasPrefix(rel, e+"/") {
			return true
		}
	}
	return false
}
