package viewer

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fatalstats/internal/aggregate"
	"github.com/verte-zerg/fatalstats/internal/dataset"
	"github.com/verte-zerg/fatalstats/internal/model"
)

func sampleResult() *dataset.Result {
	agg := aggregate.New()
	add := func(state, race string, age, year int) {
		agg.Add(model.Record{
			Date:   time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC),
			State:  state,
			Race:   model.ParseRace(race),
			Age:    age,
			HasAge: true,
		})
	}
	add("CA", "W", 20, 2015)
	add("CA", "B", 10, 2015)
	add("TX", "W", 80, 2016)
	add("", "H", 40, 2015)
	return &dataset.Result{Agg: agg, Source: "test"}
}

func newSizedModel(t *testing.T, res *dataset.Result) *Model {
	t.Helper()
	m := NewModel(res, model.DisplayConfig{Regions: map[string]string{"CA": "California", "TX": "Texas"}})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeResizeIsEmpty(t *testing.T) {
	m := NewModel(sampleResult(), model.DisplayConfig{})
	if m.View() != "" {
		t.Fatalf("expected empty view before the first resize")
	}
}

func TestRacesTabShowsAgeGroups(t *testing.T) {
	m := newSizedModel(t, sampleResult())
	out := m.View()
	if !containsAll(out, []string{"Races", "Years", "States", "Records: 4", "Data currency unknown", "Count by age group (White)"}) {
		t.Fatalf("unexpected view:\n%s", out)
	}
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.SelectedKey() != "B" {
		t.Fatalf("expected Black selected, got %q", m.SelectedKey())
	}
	if !strings.Contains(m.View(), "Count by age group (Black)") {
		t.Fatalf("detail not refreshed:\n%s", m.View())
	}
}

func TestTabNavigation(t *testing.T) {
	m := newSizedModel(t, sampleResult())
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != tabYears {
		t.Fatalf("expected years tab, got %d", m.ActiveTab())
	}
	if !strings.Contains(m.View(), "Top 5 states in 2015") {
		t.Fatalf("unexpected years detail:\n%s", m.View())
	}
	press(m, runeKey("G"))
	if m.SelectedKey() != "2016" || !strings.Contains(m.View(), "Texas: 1") {
		t.Fatalf("expected 2016 selected:\n%s", m.View())
	}

	press(m, runeKey("l"))
	if m.ActiveTab() != tabStates || m.SelectedKey() != "CA" {
		t.Fatalf("expected states tab on CA, got %d %q", m.ActiveTab(), m.SelectedKey())
	}
	if !strings.Contains(m.View(), "Count by race in California") {
		t.Fatalf("unexpected states detail:\n%s", m.View())
	}
	press(m, runeKey("G"))
	if !strings.Contains(m.View(), "Count by race in Unknown") {
		t.Fatalf("expected unknown state last:\n%s", m.View())
	}
	press(m, runeKey("g"))
	if m.SelectedKey() != "CA" {
		t.Fatalf("expected top row after g, got %q", m.SelectedKey())
	}

	press(m, runeKey("l"))
	if m.ActiveTab() != tabRaces {
		t.Fatalf("expected wrap to races tab, got %d", m.ActiveTab())
	}
	press(m, runeKey("h"))
	if m.ActiveTab() != tabStates {
		t.Fatalf("expected wrap back to states tab, got %d", m.ActiveTab())
	}
}

func TestQuitKeys(t *testing.T) {
	m := newSizedModel(t, sampleResult())
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		cmd := press(m, msg)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected quit message for %q", msg.String())
		}
	}
}

func TestEmptyResult(t *testing.T) {
	m := newSizedModel(t, &dataset.Result{Agg: aggregate.New()})
	if !containsAll(m.View(), []string{"Records: 0", "No records found."}) {
		t.Fatalf("unexpected empty view:\n%s", m.View())
	}
	press(m, runeKey("G"))
	if m.SelectedKey() != "" {
		t.Fatalf("expected no selection, got %q", m.SelectedKey())
	}
}

func TestUpdatedCaptionInHeader(t *testing.T) {
	res := sampleResult()
	res.Updated = time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	m := newSizedModel(t, res)
	if !strings.Contains(m.View(), "Data current as of Mon May 01 2023") {
		t.Fatalf("expected caption in header:\n%s", m.View())
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdef", 4); got != "a..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 10); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
