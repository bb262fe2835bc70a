package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "1111111111111111111111111111111111111111"
	hashB = "2222222222222222222222222222222222222222"
	hashC = "3333333333333333333333333333333333333333"
)

func TestParseLogOldestFirstLatestPerDay(t *testing.T) {
	out := []byte(hashC + " 2020-06-01T09:00:00+02:00\n" +
		hashB + " 2020-01-01T18:00:00+01:00\n" +
		hashA + " 2020-01-01T08:00:00+01:00\n")

	changesets, err := ParseLog(out)
	require.NoError(t, err)
	assert.Equal(t, []Changeset{
		{Day: "20200101", Ref: hashB},
		{Day: "20200601", Ref: hashC},
	}, changesets)
}

func TestParseLogEmptyAndMalformed(t *testing.T) {
	changesets, err := ParseLog(nil)
	require.NoError(t, err)
	assert.Empty(t, changesets)

	_, err = ParseLog([]byte("not-a-log-line\n"))
	require.Error(t, err)
}

func TestWithHead(t *testing.T) {
	base := []Changeset{{Day: "20200101", Ref: hashA}}

	assert.Equal(t, []Changeset{
		{Day: "20200101", Ref: hashA},
		{Day: "20240301", Ref: "master"},
	}, WithHead(base, "20240301", "master"))

	assert.Equal(t, []Changeset{
		{Day: "20200101", Ref: "main"},
	}, WithHead(base, "20200101", "main"))
}

func TestWithHeadStaysLastWhenCommitsAreDatedAfterToday(t *testing.T) {
	skewed := []Changeset{
		{Day: "20200101", Ref: hashA},
		{Day: "20240305", Ref: "future"},
	}

	got := WithHead(skewed, "20240301", "master")
	assert.Equal(t, []Changeset{
		{Day: "20200101", Ref: hashA},
		{Day: "20240301", Ref: "master"},
	}, got)
	assert.Equal(t, "master", got[len(got)-1].Ref)
}

func gitCmd(t *testing.T, dir, date string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "user.name=Test", "-c", "user.email=test@example.com"}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestGitListChangesetsAndCheckout(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	gitCmd(t, dir, "2020-01-01T10:00:00+00:00", "init", "--quiet", "-b", "master")

	locale := filepath.Join(dir, "locale")
	require.NoError(t, os.MkdirAll(locale, 0o755))
	path := filepath.Join(locale, "main.lang")

	require.NoError(t, os.WriteFile(path, []byte(";Hello\nBonjour\n"), 0o644))
	gitCmd(t, dir, "2020-01-01T10:00:00+00:00", "add", ".")
	gitCmd(t, dir, "2020-01-01T10:00:00+00:00", "commit", "--quiet", "-m", "first")

	require.NoError(t, os.WriteFile(path, []byte(";Hello\nSalut\n"), 0o644))
	gitCmd(t, dir, "2020-03-05T10:00:00+00:00", "commit", "--quiet", "-am", "second")

	clock := func() time.Time { return time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC) }
	g := NewGit(dir, WithClock(clock))

	changesets, err := g.ListChangesets(context.Background(), "locale")
	require.NoError(t, err)
	require.Len(t, changesets, 3)
	assert.Equal(t, "20200101", changesets[0].Day)
	assert.Equal(t, "20200305", changesets[1].Day)
	assert.Equal(t, Changeset{Day: "20240229", Ref: "master"}, changesets[2])

	require.NoError(t, g.Checkout(context.Background(), changesets[0].Ref))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ";Hello\nBonjour\n", string(data))

	require.NoError(t, g.Checkout(context.Background(), g.HeadRef()))
	require.Error(t, g.Checkout(context.Background(), "no-such-ref"))
}
