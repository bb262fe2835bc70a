package stats

// Rollup folds daily statistics into yearly ones, keyed by the first four
// characters of the day. Flows are summed and the stock is taken from the
// latest day seen for the year.
//
// The first day seen for a year only opens that year at zero: its own flows
// and stock are not counted. A year with a single day therefore reports all
// zeros.
func Rollup(days []DayStat) map[string]Stat {
	years := make(map[string]Stat)
	for _, d := range days {
		if len(d.Day) < 4 {
			continue
		}
		year := d.Day[:4]

		y, seen := years[year]
		if !seen {
			years[year] = Stat{}
			continue
		}

		y.Added += d.Added
		y.AddedWords += d.AddedWords
		y.Removed += d.Removed
		y.RemovedWords += d.RemovedWords
		y.Total = d.Total
		y.TotalWords = d.TotalWords
		years[year] = y
	}
	return years
}
