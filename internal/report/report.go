// Package report renders aggregated statistics as terminal text.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/fatalstats/internal/aggregate"
	"github.com/verte-zerg/fatalstats/internal/model"
)

const (
	// DefaultTop is the size of the ranked legends.
	DefaultTop = 5

	updatedLayout = "Mon Jan 02 2006"
	unknownLabel  = "Unknown"
)

// Options controls report rendering.
type Options struct {
	// Width is the total output width; 0 means the terminal width.
	Width int
	// Color forces ANSI color even when the writer is not a terminal.
	Color   bool
	Top     int
	Regions map[string]string
}

func (o Options) top() int {
	if o.Top <= 0 {
		return DefaultTop
	}
	return o.Top
}

// RegionName returns the display name for a region code.
func RegionName(regions map[string]string, code string) string {
	if code == aggregate.UnknownState {
		return unknownLabel
	}
	if name, ok := regions[code]; ok && name != "" {
		return name
	}
	return code
}

// ShadeHex returns the reds scale color for value on [0, maxVal] as #rrggbb.
func ShadeHex(value, maxVal int) string {
	return redShade(value, maxVal).hex()
}

// UpdatedCaption describes how current the data is.
func UpdatedCaption(updated time.Time) string {
	if updated.IsZero() {
		return "Data currency unknown"
	}
	return "Data current as of " + updated.Format(updatedLayout)
}

// RenderRaces prints each race with its share of all records.
func RenderRaces(w io.Writer, m aggregate.Map[model.Race, aggregate.AgeStats], opts Options) error {
	if _, err := fmt.Fprintln(w, "Number of deaths per race"); err != nil {
		return err
	}
	if len(m) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	ranked := aggregate.TopByTotal(m, 0, aggregate.AgeTotal)
	total := 0
	for _, r := range ranked {
		total += r.Total
	}
	useColor := shouldUseColor(w, opts.Color)
	barWidth := barWidthFor(resolveWidth(opts.Width), 40)

	headers := []string{"Race", "Code", "Total", "Share", ""}
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		share := 0.0
		if total > 0 {
			share = float64(r.Total) / float64(total)
		}
		shareBar := bar(r.Total, total, barWidth)
		if useColor {
			shareBar = colorizeCategory(int(r.Key), shareBar)
		}
		code := r.Key.Code()
		if code == "" {
			code = "-"
		}
		rows = append(rows, []string{
			r.Key.Label(),
			code,
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%.2f%%", share*100),
			shareBar,
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %d\n\n", total)
	return err
}

// RenderAgeGroups prints the age breakdown for one race.
func RenderAgeGroups(w io.Writer, race model.Race, s *aggregate.AgeStats) error {
	if _, err := fmt.Fprintf(w, "Count by age group (%s)\n", race.Label()); err != nil {
		return err
	}
	if s == nil || s.Total == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	rows := make([][]string, 0, model.AgeGroupCount)
	for _, g := range model.AgeGroups() {
		label := g.Label()
		if g == model.AgeUnknown {
			label = "Unknown age"
		}
		rows = append(rows, []string{label + ":", fmt.Sprintf("%d", s.Count(g))})
	}
	if err := writeLines(w, formatTable(nil, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total count: %d\n\n", s.Total)
	return err
}

// RenderYears prints a chronological bar chart of yearly totals.
func RenderYears(w io.Writer, m aggregate.Map[int, aggregate.CompositeStats], updated time.Time, opts Options) error {
	if _, err := fmt.Fprintln(w, "Number of deaths per year"); err != nil {
		return err
	}
	if len(m) == 0 {
		if _, err := fmt.Fprintln(w, "No records found."); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n\n", UpdatedCaption(updated))
		return err
	}
	limit := upperLimit(aggregate.MaxTotal(m, aggregate.CompositeTotal))
	countWidth := len(fmt.Sprintf("%d", limit))
	barWidth := barWidthFor(resolveWidth(opts.Width), 4+3+1+countWidth)
	useColor := shouldUseColor(w, opts.Color)

	for _, year := range aggregate.SortedKeys(m) {
		s := m[year]
		b := bar(s.Total, limit, barWidth)
		if useColor {
			b = redShade(s.Total, limit).colorize(b)
		}
		if _, err := fmt.Fprintf(w, "%4d │ %s %d\n", year, b, s.Total); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Scale: 0-%d\n", limit); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n\n", UpdatedCaption(updated))
	return err
}

// RenderTopStates prints the n states with the most records in one year.
func RenderTopStates(w io.Writer, year int, s *aggregate.CompositeStats, regions map[string]string, n int) error {
	if n <= 0 {
		n = DefaultTop
	}
	if _, err := fmt.Fprintf(w, "Top %d states in %d\n", n, year); err != nil {
		return err
	}
	top := aggregate.TopN(s, n)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	if err := writeLines(w, topLines(top, regions)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total count: %d\n\n", s.Total)
	return err
}

// TopStateLines formats TopN results as "<name>: <count>".
func TopStateLines(s *aggregate.CompositeStats, regions map[string]string, n int) []string {
	return topLines(aggregate.TopN(s, n), regions)
}

func topLines(top []aggregate.KeyCount, regions map[string]string) []string {
	lines := make([]string, 0, len(top))
	for _, kc := range top {
		lines = append(lines, fmt.Sprintf("%s: %d", RegionName(regions, kc.Key), kc.Count))
	}
	return lines
}

// RenderStates prints every state shaded by its total, followed by the top
// states. The unknown-state bucket is listed last and never ranked.
func RenderStates(w io.Writer, m aggregate.Map[string, aggregate.RaceStats], opts Options) error {
	if _, err := fmt.Fprintln(w, "Number of deaths per state"); err != nil {
		return err
	}
	if len(m) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	known := make(aggregate.Map[string, aggregate.RaceStats], len(m))
	for k, s := range m {
		if k != aggregate.UnknownState {
			known[k] = s
		}
	}
	maxTotal := aggregate.MaxTotal(known, aggregate.RaceTotal)
	useColor := shouldUseColor(w, opts.Color)

	headers := []string{"State", "Name", "Total"}
	races := model.Races()
	for _, r := range races {
		headers = append(headers, r.Label())
	}
	headers = append(headers, "Shade")
	rightAlign := map[int]bool{2: true}
	for i := range races {
		rightAlign[3+i] = true
	}

	keys := aggregate.SortedKeys(known)
	if _, ok := m[aggregate.UnknownState]; ok {
		keys = append(keys, aggregate.UnknownState)
	}
	rows := make([][]string, 0, len(keys))
	for _, code := range keys {
		s := m[code]
		label := code
		if code == aggregate.UnknownState {
			label = "-"
		}
		row := []string{label, RegionName(opts.Regions, code), fmt.Sprintf("%d", s.Total)}
		for _, r := range races {
			row = append(row, fmt.Sprintf("%d", s.Count(r)))
		}
		shade := ""
		if code != aggregate.UnknownState {
			shade = shadeCell(s.Total, maxTotal, useColor)
		}
		rows = append(rows, append(row, shade))
	}
	if err := writeLines(w, formatTable(headers, rows, rightAlign)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	top := aggregate.TopByTotal(known, opts.top(), aggregate.RaceTotal)
	if _, err := fmt.Fprintf(w, "Top %d\n", opts.top()); err != nil {
		return err
	}
	for i, r := range top {
		line := fmt.Sprintf("%d. %s (%s): %d", i+1, RegionName(opts.Regions, r.Key), r.Key, r.Total)
		if useColor {
			line = redShade(r.Total, maxTotal).colorize(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// shadeCell renders a fixed-width intensity swatch. Without color, the
// intensity is shown as the swatch length.
func shadeCell(value, maxVal int, useColor bool) string {
	if useColor {
		return redShade(value, maxVal).colorize("████")
	}
	return bar(value, maxVal, 8)
}

// RenderStateRaces prints the race breakdown for one state.
func RenderStateRaces(w io.Writer, state string, s *aggregate.RaceStats, regions map[string]string) error {
	if _, err := fmt.Fprintf(w, "Count by race in %s\n", RegionName(regions, state)); err != nil {
		return err
	}
	if s == nil || s.Total == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	rows := make([][]string, 0, model.RaceCount)
	for _, r := range model.Races() {
		rows = append(rows, []string{r.Label() + ":", fmt.Sprintf("%d", s.Count(r))})
	}
	if err := writeLines(w, formatTable(nil, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total count: %d\n\n", s.Total)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
