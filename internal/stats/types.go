package stats

import "sort"

// Stat holds string and word counts for a day or a year. Added and Removed
// (and their word counts) are flows between snapshots; Total and TotalWords
// are the stock at one snapshot.
type Stat struct {
	Added        int `json:"added"`
	AddedWords   int `json:"added_words"`
	Removed      int `json:"removed"`
	RemovedWords int `json:"removed_words"`
	Total        int `json:"total"`
	TotalWords   int `json:"total_words"`
}

// DayStat is the Stat of the snapshot taken for one day.
type DayStat struct {
	Day string `json:"day"`
	Stat
}

// ByDay indexes days by their YYYYMMDD key.
func ByDay(days []DayStat) map[string]Stat {
	out := make(map[string]Stat, len(days))
	for _, d := range days {
		out[d.Day] = d.Stat
	}
	return out
}

// Years returns the keys of a rollup in chronological order.
func Years(years map[string]Stat) []string {
	keys := make([]string, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	sort.Strings(keys)
	return keys
}
