package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"l10n-stats/internal/parser"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLang(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanMergesFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "main.lang")
	b := filepath.Join(root, "b", "main.lang")
	writeLang(t, a, ";Hello\nBonjour\n")
	writeLang(t, b, ";Hello\nSalut\n;Bye\nAu revoir\n")

	for _, workers := range []int{1, 4} {
		s, err := NewScanner(root, parser.NewLangParser(), Options{Workers: workers})
		require.NoError(t, err)

		table, err := s.Scan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, parser.Table{
			parser.ID(a, "Hello"): "Bonjour",
			parser.ID(b, "Hello"): "Salut",
			parser.ID(b, "Bye"):   "Au revoir",
		}, table)
	}
}

func TestScanMemoFollowsContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.lang")
	writeLang(t, path, ";Hello\nBonjour\n")

	s, err := NewScanner(root, parser.NewLangParser(), Options{CacheSize: 8})
	require.NoError(t, err)

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)

	writeLang(t, path, ";Hello\nBonjour\n;New\nNouveau\n")
	second, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)

	writeLang(t, path, ";Hello\nBonjour\n")
	third, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestScanTemplateMode(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.lang")
	writeLang(t, path, ";Hello\nBonjour\n")

	s, err := NewScanner(root, parser.NewLangParser(), Options{Template: true})
	require.NoError(t, err)
	table, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello", table[parser.ID(path, "Hello")])
}

func TestScanUnreadableFileAborts(t *testing.T) {
	root := t.TempDir()
	writeLang(t, filepath.Join(root, "ok.lang"), ";Hello\nBonjour\n")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.lang")))

	s, err := NewScanner(root, parser.NewLangParser(), Options{})
	require.NoError(t, err)
	_, err = s.Scan(context.Background())
	require.ErrorIs(t, err, parser.ErrUnreadableFile)
}

func TestScanMemFsWithExclusions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/repo/locale/fr", 0o755))
	require.NoError(t, fsys.MkdirAll("/repo/locale/obsolete", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/repo/locale/fr/main.lang", []byte(";Open\nOuvrir\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repo/locale/obsolete/main.lang", []byte(";Old\nVieux\n"), 0o644))

	s, err := NewScanner("/repo/locale", parser.NewLangParser(), Options{Fs: fsys, Exclude: []string{"obsolete"}, CacheSize: 4})
	require.NoError(t, err)

	table, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, parser.Table{
		parser.ID(filepath.Join("/repo/locale", "fr", "main.lang"), "Open"): "Ouvrir",
	}, table)
}
