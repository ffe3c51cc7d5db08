package calendar

import (
	"regexp"
	"testing"
	"time"
)

func TestGrid_LengthMatchesPaddingPlusDays(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for mon := time.January; mon <= time.December; mon++ {
			m := Month{Year: year, Month: mon}
			cells := Grid(m)
			first := int(time.Date(year, mon, 1, 0, 0, 0, 0, time.UTC).Weekday())
			days := time.Date(year, mon+1, 0, 0, 0, 0, 0, time.UTC).Day()
			if len(cells) != first+days {
				t.Fatalf("%s: expected %d cells, got %d", m, first+days, len(cells))
			}
			dated := 0
			for i, c := range cells {
				if c.Empty() {
					if i >= first {
						t.Fatalf("%s: unexpected padding at %d", m, i)
					}
					continue
				}
				dated++
				if c.Day() != i-first+1 {
					t.Fatalf("%s: cell %d has day %d", m, i, c.Day())
				}
			}
			if dated != days {
				t.Fatalf("%s: expected %d dated cells, got %d", m, days, dated)
			}
		}
	}
}

func TestGrid_February2024(t *testing.T) {
	cells := Grid(Month{Year: 2024, Month: time.February})
	if len(cells) != 33 {
		t.Fatalf("expected 33 cells, got %d", len(cells))
	}
	for i := 0; i < 4; i++ {
		if !cells[i].Empty() {
			t.Fatalf("expected padding at %d", i)
		}
	}
	if cells[4].Key() != "2024-02-01" {
		t.Fatalf("expected first dated cell 2024-02-01, got %q", cells[4].Key())
	}
	if cells[32].Key() != "2024-02-29" {
		t.Fatalf("expected last dated cell 2024-02-29, got %q", cells[32].Key())
	}
}

func TestFebruaryDays_LeapRule(t *testing.T) {
	cases := map[int]int{
		1900: 28,
		2000: 29,
		2023: 28,
		2024: 29,
		2100: 28,
		2400: 29,
	}
	for year, want := range cases {
		m := Month{Year: year, Month: time.February}
		if got := m.Days(); got != want {
			t.Errorf("%d: expected %d days, got %d", year, want, got)
		}
		dated := 0
		for _, c := range Grid(m) {
			if !c.Empty() {
				dated++
			}
		}
		if dated != want {
			t.Errorf("%d: expected %d dated cells, got %d", year, want, dated)
		}
	}
}

func TestMonthAdd_RollsOverYears(t *testing.T) {
	cases := []struct {
		from Month
		n    int
		want Month
	}{
		{Month{2024, time.December}, 1, Month{2025, time.January}},
		{Month{2024, time.January}, -1, Month{2023, time.December}},
		{Month{2024, time.March}, 0, Month{2024, time.March}},
		{Month{2024, time.March}, 25, Month{2026, time.April}},
		{Month{2024, time.March}, -27, Month{2021, time.December}},
	}
	for _, c := range cases {
		if got := c.from.Add(c.n); got != c.want {
			t.Errorf("%v + %d: expected %v, got %v", c.from, c.n, c.want, got)
		}
	}
}

func TestKey_FormatAndInjectivity(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	seen := map[string]time.Time{}
	start := Date(2023, time.December, 25)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		k := Key(d)
		if !pattern.MatchString(k) {
			t.Fatalf("key %q does not match pattern", k)
		}
		if prev, ok := seen[k]; ok {
			t.Fatalf("key %q shared by %v and %v", k, prev, d)
		}
		seen[k] = d
	}
	if got := Key(Date(2024, time.March, 5)); got != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %q", got)
	}
}

func TestKey_UsesOwnLocationFields(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2024, time.March, 15, 23, 30, 0, 0, time.FixedZone("PST", -8*60*60))
	early := time.Date(2024, time.March, 16, 0, 30, 0, 0, tokyo)
	if Key(late) != "2024-03-15" {
		t.Fatalf("expected 2024-03-15, got %q", Key(late))
	}
	if Key(early) != "2024-03-16" {
		t.Fatalf("expected 2024-03-16, got %q", Key(early))
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	d, err := ParseKey("2024-02-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if Key(d) != "2024-02-29" {
		t.Fatalf("expected round trip, got %q", Key(d))
	}
	if _, err := ParseKey("2024-2-9"); err == nil {
		t.Fatalf("expected error for unpadded key")
	}
}

func TestWeeks_SevenColumns(t *testing.T) {
	rows := Month{Year: 2024, Month: time.February}.Weeks()
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for i, r := range rows[:len(rows)-1] {
		if len(r) != 7 {
			t.Fatalf("row %d has %d cells", i, len(r))
		}
	}
	if last := rows[len(rows)-1]; len(last) != 5 {
		t.Fatalf("expected short last row of 5, got %d", len(last))
	}
}
