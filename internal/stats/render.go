// ABOUTME: Text rendering of reading statistics for the terminal
// ABOUTME: Produces a markdown summary, horizontal bar charts and a coloured mood x time heat grid

package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// heatColors runs from an empty cell to the busiest cell.
var heatColors = []lipgloss.Color{"236", "22", "28", "34", "40", "46"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Markdown renders the report as a markdown document.
func Markdown(r Report) string {
	var b strings.Builder

	b.WriteString("# Reading stats\n\n")
	b.WriteString("| Total pages | Total minutes | Days with reading | Avg pages/day | Books |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %.1f | %d |\n\n",
		r.Totals.Pages, r.Totals.Minutes, r.Totals.HabitDays, r.Totals.AvgPagesPerDay, r.Totals.Books)

	fmt.Fprintf(&b, "**Streak:** %d days (longest %d)\n\n", r.Streaks.Current, r.Streaks.Longest)

	if len(r.Books) > 0 {
		b.WriteString("## Books\n\n")
		b.WriteString("| Book | Pages | Minutes | Sessions |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, bt := range r.Books {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", escapeCell(bt.Book), bt.Pages, bt.Minutes, bt.Sessions)
		}
		b.WriteString("\n")
	}

	if r.CrossTab != nil && len(r.CrossTab.Moods) > 0 {
		b.WriteString("## Pages by mood and time of day\n\n")
		b.WriteString("| Mood |")
		for _, t := range r.CrossTab.Times {
			fmt.Fprintf(&b, " %s |", t)
		}
		b.WriteString("\n|---|")
		b.WriteString(strings.Repeat("---:|", len(r.CrossTab.Times)))
		b.WriteString("\n")
		for i, m := range r.CrossTab.Moods {
			fmt.Fprintf(&b, "| %s |", escapeCell(m))
			for _, v := range r.CrossTab.Values[i] {
				fmt.Fprintf(&b, " %d |", v)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// BarChart draws one bar of pages per point, scaled to width characters.
func BarChart(title string, points []DayPoint, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	if len(points) == 0 {
		b.WriteString(labelStyle.Render("  no data"))
		b.WriteString("\n")
		return b.String()
	}
	if width < 1 {
		width = 1
	}

	peak := 0
	for _, p := range points {
		peak = max(peak, p.Pages)
	}

	for _, p := range points {
		n := 0
		if peak > 0 {
			n = p.Pages * width / peak
		}
		if p.Pages > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&b, "  %s %s %d\n", labelStyle.Render(p.Date), barStyle.Render(strings.Repeat("█", n)), p.Pages)
	}
	return b.String()
}

// HeatGrid draws the cross tab with each cell shaded by its share of the
// busiest cell and labelled with its value.
func HeatGrid(ct *CrossTab) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Pages by mood and time of day"))
	b.WriteString("\n")
	if ct == nil || len(ct.Moods) == 0 {
		b.WriteString(labelStyle.Render("  no data"))
		b.WriteString("\n")
		return b.String()
	}

	rowWidth := 0
	for _, m := range ct.Moods {
		rowWidth = max(rowWidth, lipgloss.Width(m))
	}
	cellWidth := 6
	for _, t := range ct.Times {
		cellWidth = max(cellWidth, lipgloss.Width(t)+2)
	}
	for _, row := range ct.Values {
		for _, v := range row {
			cellWidth = max(cellWidth, len(fmt.Sprint(v))+2)
		}
	}

	rowLabel := lipgloss.NewStyle().Width(rowWidth + 2)
	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	b.WriteString(rowLabel.Render(""))
	for _, t := range ct.Times {
		b.WriteString(cell.Inherit(labelStyle).Render(t))
	}
	b.WriteString("\n")

	peak := ct.Max()
	for i, m := range ct.Moods {
		b.WriteString(rowLabel.Render(m))
		for _, v := range ct.Values[i] {
			b.WriteString(cell.Background(heatColor(v, peak)).Render(fmt.Sprint(v)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func heatColor(v, peak int) lipgloss.Color {
	if v <= 0 || peak <= 0 {
		return heatColors[0]
	}
	idx := 1 + (v*(len(heatColors)-2))/peak
	return heatColors[min(idx, len(heatColors)-1)]
}
