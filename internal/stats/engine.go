// Package stats walks a changeset timeline and measures how the set of
// translatable strings grows and shrinks between snapshots.
package stats

import (
	"context"
	"errors"
	"fmt"

	"l10n-stats/internal/parser"
	"l10n-stats/internal/textutil"
	"l10n-stats/internal/vcs"

	"github.com/rs/zerolog/log"
)

var (
	// ErrCheckoutFailed reports a snapshot the repository could not switch to.
	ErrCheckoutFailed = errors.New("checkout failed")
	// ErrUnorderedChangesets reports day keys that do not strictly increase.
	ErrUnorderedChangesets = errors.New("changesets not strictly increasing by day")
)

// Checkouter makes a snapshot the active working state.
type Checkouter interface {
	Checkout(ctx context.Context, ref string) error
}

// Scanner returns the string table of the active working state.
type Scanner interface {
	Scan(ctx context.Context) (parser.Table, error)
}

// WordCounter counts the words of one string.
type WordCounter func(text string) int

// Option configures an Engine.
type Option func(*Engine)

// WithWordCounter replaces textutil.CountWords.
func WithWordCounter(fn WordCounter) Option {
	return func(e *Engine) {
		if fn != nil {
			e.countWords = fn
		}
	}
}

// Engine computes per-day statistics over a changeset timeline. It owns the
// working tree of repo for the duration of Run; nothing else may check out
// snapshots meanwhile.
type Engine struct {
	repo       Checkouter
	scanner    Scanner
	countWords WordCounter

	// previous is the table of the last processed snapshot, valid once primed.
	previous parser.Table
	primed   bool
}

// NewEngine creates an Engine.
func NewEngine(repo Checkouter, scanner Scanner, opts ...Option) *Engine {
	e := &Engine{
		repo:       repo,
		scanner:    scanner,
		countWords: textutil.CountWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run checks out every changeset in order, scans it and diffs it against the
// previous snapshot. Only the appearance and disappearance of string IDs is
// measured: a string whose text changed under the same ID counts as neither
// added nor removed. The first snapshot only gets totals.
//
// Any checkout or scan failure aborts the whole run. ctx is checked between
// snapshots, never within one.
func (e *Engine) Run(ctx context.Context, changesets []vcs.Changeset) ([]DayStat, error) {
	if err := validate(changesets); err != nil {
		return nil, err
	}

	e.previous, e.primed = nil, false
	days := make([]DayStat, 0, len(changesets))

	for _, c := range changesets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := e.repo.Checkout(ctx, c.Ref); err != nil {
			return nil, fmt.Errorf("%w: day %s (%s): %w", ErrCheckoutFailed, c.Day, c.Ref, err)
		}

		current, err := e.scanner.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan day %s (%s): %w", c.Day, c.Ref, err)
		}

		day := DayStat{Day: c.Day, Stat: e.diff(current)}
		days = append(days, day)

		log.Info().
			Str("day", c.Day).
			Str("ref", c.Ref).
			Int("total", day.Total).
			Int("added", day.Added).
			Int("removed", day.Removed).
			Msg("Snapshot processed")
	}

	return days, nil
}

// diff measures current against the previous snapshot, then makes current
// the previous one.
func (e *Engine) diff(current parser.Table) Stat {
	st := Stat{
		Total:      len(current),
		TotalWords: e.sumWords(current),
	}

	if !e.primed {
		e.previous, e.primed = current, true
		return st
	}

	removed := missingFrom(e.previous, current)
	st.Removed = len(removed)
	for _, id := range removed {
		st.RemovedWords += e.countWords(e.previous[id])
	}

	added := missingFrom(current, e.previous)
	st.Added = len(added)
	for _, id := range added {
		st.AddedWords += e.countWords(current[id])
	}

	e.previous = current
	return st
}

func (e *Engine) sumWords(table parser.Table) int {
	total := 0
	for _, text := range table {
		total += e.countWords(text)
	}
	return total
}

// missingFrom returns the keys of a that b lacks.
func missingFrom(a, b parser.Table) []string {
	var keys []string
	for id := range a {
		if _, ok := b[id]; !ok {
			keys = append(keys, id)
		}
	}
	return keys
}

func validate(changesets []vcs.Changeset) error {
	for i := 1; i < len(changesets); i++ {
		if changesets[i].Day <= changesets[i-1].Day {
			return fmt.Errorf("%w: %s after %s", ErrUnorderedChangesets, changesets[i].Day, changesets[i-1].Day)
		}
	}
	return nil
}
