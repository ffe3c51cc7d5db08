package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Layouts for due dates. Zone-less input is read as a floating wall-clock time.
const (
	FloatingLayout = "2006-01-02T15:04:05"
	InputLayout    = "2006-01-02T15:04"
	DisplayLayout  = "Jan 2, 2006 15:04"
)

var parseLayouts = []string{
	time.RFC3339Nano,
	FloatingLayout,
	InputLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DueDate is a task deadline. Its wall-clock fields are kept exactly as parsed.
type DueDate struct {
	time.Time
	// Floating is set when the source carried no zone offset.
	Floating bool
}

// ParseDue parses s in any accepted layout. Zone-less values stay floating.
func ParseDue(s string) (DueDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DueDate{}, fmt.Errorf("empty due date")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DueDate{Time: t}, nil
	}
	for _, layout := range parseLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return DueDate{Time: t, Floating: true}, nil
		}
	}
	return DueDate{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}

// ParseOptionalDue returns nil for a blank string.
func ParseOptionalDue(s string) (*DueDate, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDue(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// String encodes d the way it is sent to the server.
func (d DueDate) String() string {
	if d.Floating {
		return d.Time.Format(FloatingLayout)
	}
	return d.Time.Format(time.RFC3339Nano)
}

// Input formats d for an edit buffer.
func (d DueDate) Input() string {
	return d.Time.Format(InputLayout)
}

// Display formats d for humans without shifting zones.
func (d DueDate) Display() string {
	return d.Time.Format(DisplayLayout)
}

// Relative describes d relative to now, e.g. "3 days from now". Floating dates
// are compared against now's wall clock.
func (d DueDate) Relative(now time.Time) string {
	if d.Floating {
		now = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	}
	return humanize.RelTime(d.Time, now, "ago", "from now")
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = DueDate{}
		return nil
	}
	parsed, err := ParseDue(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
