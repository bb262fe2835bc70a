// Package vcs drives the git binary: switching the working tree between
// snapshots and listing the commits that touched a tracked path.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Changeset is one snapshot of the timeline: the last commit of a day.
type Changeset struct {
	// Day is the author date as YYYYMMDD.
	Day string `json:"day"`
	// Ref is the commit (or branch) to check out.
	Ref string `json:"ref"`
}

// Git runs git commands inside a repository directory.
type Git struct {
	dir     string
	binary  string
	headRef string
	loc     *time.Location
	now     func() time.Time
}

// Option configures a Git.
type Option func(*Git)

// WithBinary sets the git executable.
func WithBinary(binary string) Option {
	return func(g *Git) {
		if binary != "" {
			g.binary = binary
		}
	}
}

// WithHeadRef sets the branch that stands for the current state.
func WithHeadRef(ref string) Option {
	return func(g *Git) {
		if ref != "" {
			g.headRef = ref
		}
	}
}

// WithLocation sets the timezone today's date is computed in.
func WithLocation(loc *time.Location) Option {
	return func(g *Git) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithClock overrides the current time, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Git) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGit creates a Git for the repository at dir.
func NewGit(dir string, opts ...Option) *Git {
	g := &Git{
		dir:     dir,
		binary:  "git",
		headRef: "master",
		loc:     time.UTC,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HeadRef returns the branch that stands for the current state.
func (g *Git) HeadRef() string { return g.headRef }

// Checkout makes ref the active working state.
func (g *Git) Checkout(ctx context.Context, ref string) error {
	if _, err := g.run(ctx, "checkout", "--quiet", ref); err != nil {
		return err
	}
	log.Debug().Str("ref", ref).Str("repo", g.dir).Msg("Checked out")
	return nil
}

// ListChangesets checks out the head ref and returns, oldest first, the last
// commit of every day that touched element, followed by today's head ref.
func (g *Git) ListChangesets(ctx context.Context, element string) ([]Changeset, error) {
	if err := g.Checkout(ctx, g.headRef); err != nil {
		return nil, err
	}

	out, err := g.run(ctx, "log", "--pretty=format:%H %aI", "--", element)
	if err != nil {
		return nil, err
	}

	changesets, err := ParseLog(out)
	if err != nil {
		return nil, err
	}

	today := g.now().In(g.loc).Format("20060102")
	changesets = WithHead(changesets, today, g.headRef)

	log.Info().Int("changesets", len(changesets)).Str("element", element).Msg("Listed changesets")
	return changesets, nil
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = g.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// ParseLog parses `git log --pretty=format:"%H %aI"` output (newest first)
// into day-keyed changesets, oldest first. When several commits share a day,
// the latest one is kept. Days are sorted so that author dates going back in
// time on a branch still produce a strictly increasing timeline.
func ParseLog(output []byte) ([]Changeset, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan git log: %w", err)
	}
	slices.Reverse(lines)

	byDay := make(map[string]string)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 || len(fields[1]) < 10 {
			return nil, fmt.Errorf("unexpected git log line: %q", line)
		}
		day := strings.ReplaceAll(fields[1][:10], "-", "")
		byDay[day] = fields[0]
	}

	return sortedChangesets(byDay), nil
}

// WithHead appends today's entry for the head ref as the last changeset.
// Commits from today or dated after it, which clock skew can produce, are
// dropped; the head ref already contains them.
func WithHead(changesets []Changeset, today, headRef string) []Changeset {
	out := make([]Changeset, 0, len(changesets)+1)
	for _, c := range changesets {
		if c.Day >= today {
			if c.Day > today {
				log.Warn().Str("day", c.Day).Str("ref", c.Ref).Str("today", today).Msg("Dropping commit dated after today")
			}
			continue
		}
		out = append(out, c)
	}
	return append(out, Changeset{Day: today, Ref: headRef})
}

func sortedChangesets(byDay map[string]string) []Changeset {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]Changeset, 0, len(days))
	for _, day := range days {
		out = append(out, Changeset{Day: day, Ref: byDay[day]})
	}
	return out
}
