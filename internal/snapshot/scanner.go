// Package snapshot builds the union string table of the working tree as it is
// currently checked out.
package snapshot

import (
	"context"
	"fmt"

	"l10n-stats/internal/filewalker"
	"l10n-stats/internal/parser"
	"l10n-stats/internal/textutil"
	"l10n-stats/internal/worker"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Options configures a Scanner.
type Options struct {
	// Template keeps untranslated entries with their original text.
	Template bool
	// Workers is the number of files parsed concurrently within one snapshot.
	Workers int
	// CacheSize bounds the memo of parsed files keyed by path and content
	// hash. Zero disables it.
	CacheSize int
	// Exclude lists root-relative path prefixes to skip.
	Exclude []string
	// Fs is the filesystem holding the working tree. Nil means the OS one.
	Fs afero.Fs
}

// Scanner enumerates the files of one format under a root and merges their
// string tables. It reads whatever the working tree holds at call time, so
// callers must not switch snapshots while Scan runs.
type Scanner struct {
	root   string
	fs     afero.Fs
	parser parser.Parser
	walker *filewalker.Walker
	opts   Options
	memo   *lru.Cache[string, parser.Table]
}

// NewScanner creates a Scanner over root for the files p handles.
func NewScanner(root string, p parser.Parser, opts Options) (*Scanner, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	s := &Scanner{
		root:   root,
		fs:     fsys,
		parser: p,
		walker: filewalker.NewWalker(fsys, p, opts.Exclude...),
		opts:   opts,
	}
	if opts.CacheSize > 0 {
		memo, err := lru.New[string, parser.Table](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create parse cache: %w", err)
		}
		s.memo = memo
	}
	return s, nil
}

// Scan returns the union table of every file under the root. The first file
// that fails, in enumeration order, aborts the scan.
func (s *Scanner) Scan(ctx context.Context) (parser.Table, error) {
	files, err := s.walker.Walk(s.root)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool[string, parser.Table](s.opts.Workers, func(ctx context.Context, path string) (parser.Table, error) {
		return s.parseFile(path)
	})

	table := make(parser.Table)
	for _, task := range pool.Execute(ctx, files) {
		if task.Err != nil {
			return nil, task.Err
		}
		for id, text := range task.Result {
			table[id] = text
		}
	}

	log.Debug().Int("files", len(files)).Int("strings", len(table)).Str("root", s.root).Msg("Snapshot scanned")
	return table, nil
}

func (s *Scanner) parseFile(path string) (parser.Table, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", parser.ErrUnreadableFile, path, err)
	}

	var key string
	if s.memo != nil {
		key = path + "\x00" + textutil.Hash(data)
		if table, ok := s.memo.Get(key); ok {
			return table, nil
		}
	}

	res, err := s.parser.Parse(path, data, s.opts.Template)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", path).Int("strings", res.Count).Msg("Parsed file")

	if s.memo != nil {
		s.memo.Add(key, res.Strings)
	}
	return res.Strings, nil
}
