// ABOUTME: Pure aggregation over reading entries: totals, daily series, cross tabulation
// ABOUTME: Every function is total; empty or malformed input yields zero-valued results

package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/timeutil"
)

// UnknownTime labels entries without a time of day.
const UnknownTime = "Unknown"

// Totals are the headline numbers for a set of entries.
type Totals struct {
	Pages            int     `json:"pages"`
	Minutes          int     `json:"minutes"`
	Entries          int     `json:"entries"`
	HabitDays        int     `json:"habit_days"`
	Books            int     `json:"books"`
	AvgPagesPerDay   float64 `json:"avg_pages_per_day"`
	AvgMinutesPerDay float64 `json:"avg_minutes_per_day"`
}

// DayPoint is the sum of one day's sessions.
type DayPoint struct {
	Date    string `json:"date"`
	Pages   int    `json:"pages"`
	Minutes int    `json:"minutes"`
}

// Series is a date-ordered sequence of points for one label.
type Series struct {
	Label  string     `json:"label"`
	Points []DayPoint `json:"points"`
}

// ComputeTotals sums every entry. Habit-days counts distinct parsable dates;
// entries with unparsable dates still contribute pages and minutes.
func ComputeTotals(entries []models.Entry) Totals {
	t := Totals{Entries: len(entries)}
	days := make(map[string]bool)
	books := make(map[string]bool)

	for _, e := range entries {
		t.Pages += e.Pages
		t.Minutes += e.Minutes
		if day, ok := timeutil.DayKey(e.Date); ok {
			days[day] = true
		}
		if b := strings.TrimSpace(e.Book); b != "" {
			books[b] = true
		}
	}

	t.HabitDays = len(days)
	t.Books = len(books)
	if t.HabitDays > 0 {
		t.AvgPagesPerDay = float64(t.Pages) / float64(t.HabitDays)
		t.AvgMinutesPerDay = float64(t.Minutes) / float64(t.HabitDays)
	}
	return t
}

// Daily groups entries by date. Unparsable dates are dropped.
func Daily(entries []models.Entry) []DayPoint {
	return dailyOf(entries, func(models.Entry) bool { return true })
}

func dailyOf(entries []models.Entry, keep func(models.Entry) bool) []DayPoint {
	byDay := make(map[string]*DayPoint)
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		day, ok := timeutil.DayKey(e.Date)
		if !ok {
			continue
		}
		p, exists := byDay[day]
		if !exists {
			p = &DayPoint{Date: day}
			byDay[day] = p
		}
		p.Pages += e.Pages
		p.Minutes += e.Minutes
	}

	points := make([]DayPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// TimeLabel normalizes an entry's time of day for grouping.
func TimeLabel(tod string) string {
	tod = models.NormalizeTimeOfDay(tod)
	if tod == "" {
		return UnknownTime
	}
	return tod
}

// MoodLabel normalizes an entry's mood for grouping.
func MoodLabel(mood string) string {
	return models.NormalizeMood(mood, nil)
}

// ByTimeOfDay returns one daily series per time of day present: AM, PM, then
// any other labels in sorted order.
func ByTimeOfDay(entries []models.Entry) []Series {
	present := make(map[string]bool)
	for _, e := range entries {
		if _, ok := timeutil.DayKey(e.Date); ok {
			present[TimeLabel(e.TimeOfDay)] = true
		}
	}

	var series []Series
	for _, label := range orderTimes(present, false) {
		series = append(series, Series{
			Label:  label,
			Points: dailyOf(entries, func(e models.Entry) bool { return TimeLabel(e.TimeOfDay) == label }),
		})
	}
	return series
}

// orderTimes puts AM and PM first. With always set they are included even
// when absent.
func orderTimes(present map[string]bool, always bool) []string {
	var out []string
	for _, t := range []string{models.AM, models.PM} {
		if always || present[t] {
			out = append(out, t)
		}
	}
	var rest []string
	for t := range present {
		if t != models.AM && t != models.PM {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// CrossTab is summed pages with moods as rows and times of day as columns.
type CrossTab struct {
	Moods  []string `json:"moods"`
	Times  []string `json:"times"`
	Values [][]int  `json:"values"`
}

// ComputeCrossTab pivots pages by mood and time of day. Columns always
// include AM and PM; absent combinations are zero.
func ComputeCrossTab(entries []models.Entry) *CrossTab {
	moods := make(map[string]bool)
	times := make(map[string]bool)
	for _, e := range entries {
		moods[MoodLabel(e.Mood)] = true
		times[TimeLabel(e.TimeOfDay)] = true
	}

	ct := &CrossTab{Moods: orderMoods(moods), Times: orderTimes(times, true)}
	ct.Values = make([][]int, len(ct.Moods))
	for i := range ct.Values {
		ct.Values[i] = make([]int, len(ct.Times))
	}

	for _, e := range entries {
		i := indexOf(ct.Moods, MoodLabel(e.Mood))
		j := indexOf(ct.Times, TimeLabel(e.TimeOfDay))
		ct.Values[i][j] += e.Pages
	}
	return ct
}

// orderMoods lists default moods in their display order, then others sorted.
func orderMoods(present map[string]bool) []string {
	var out []string
	for _, m := range models.DefaultMoods {
		if present[m] {
			out = append(out, m)
		}
	}
	var rest []string
	for m := range present {
		if indexOf(models.DefaultMoods, m) < 0 {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Cell returns summed pages for mood and time of day, 0 if absent.
func (c *CrossTab) Cell(mood, tod string) int {
	i := indexOf(c.Moods, mood)
	j := indexOf(c.Times, tod)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Values[i][j]
}

// Max returns the largest cell value.
func (c *CrossTab) Max() int {
	best := 0
	for _, row := range c.Values {
		for _, v := range row {
			best = max(best, v)
		}
	}
	return best
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Streaks are runs of consecutive habit-days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streak measures consecutive reading days. The current streak counts back
// from today, or from yesterday when nothing is logged today yet.
func Streak(entries []models.Entry, today time.Time) Streaks {
	days := make(map[string]bool)
	for _, e := range entries {
		if day, ok := timeutil.DayKey(e.Date); ok {
			days[day] = true
		}
	}
	if len(days) == 0 {
		return Streaks{}
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	var s Streaks
	run := 0
	var prev time.Time
	for i, d := range sorted {
		t, _ := time.Parse(timeutil.DateLayout, d)
		if i > 0 && t.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		s.Longest = max(s.Longest, run)
		prev = t
	}

	cursor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !days[timeutil.FormatDate(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for days[timeutil.FormatDate(cursor)] {
		s.Current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return s
}

// BookTotal sums one book's sessions.
type BookTotal struct {
	Book     string `json:"book"`
	Pages    int    `json:"pages"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

// PerBook returns totals per title, most pages first, ties by title.
func PerBook(entries []models.Entry) []BookTotal {
	byBook := make(map[string]*BookTotal)
	for _, e := range entries {
		title := strings.TrimSpace(e.Book)
		if title == "" {
			continue
		}
		b, ok := byBook[title]
		if !ok {
			b = &BookTotal{Book: title}
			byBook[title] = b
		}
		b.Pages += e.Pages
		b.Minutes += e.Minutes
		b.Sessions++
	}

	out := make([]BookTotal, 0, len(byBook))
	for _, b := range byBook {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pages != out[j].Pages {
			return out[i].Pages > out[j].Pages
		}
		return out[i].Book < out[j].Book
	})
	return out
}

// Report bundles every metric for display or serialization.
type Report struct {
	Totals      Totals      `json:"totals"`
	Daily       []DayPoint  `json:"daily"`
	ByTimeOfDay []Series    `json:"by_time_of_day"`
	CrossTab    *CrossTab   `json:"cross_tab"`
	Streaks     Streaks     `json:"streaks"`
	Books       []BookTotal `json:"books"`
}

// Build computes the full report. today anchors the current streak.
func Build(entries []models.Entry, today time.Time) Report {
	return Report{
		Totals:      ComputeTotals(entries),
		Daily:       Daily(entries),
		ByTimeOfDay: ByTimeOfDay(entries),
		CrossTab:    ComputeCrossTab(entries),
		Streaks:     Streak(entries, today),
		Books:       PerBook(entries),
	}
}
