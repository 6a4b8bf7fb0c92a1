package leave

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"talent-ops/internal/calendar"
)

// DateList stores an explicit date selection as a jsonb array of YYYY-MM-DD
// strings. Kept as a typed column instead of being encoded into the reason
// text so the selection survives round trips without string parsing.
type DateList []string

func (d DateList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *DateList) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for DateList: %T", value)
	}

	return json.Unmarshal(raw, d)
}

// Dates parses the list into times, dropping duplicates and sorting ascending.
func (d DateList) Dates() ([]time.Time, error) {
	seen := make(map[string]struct{}, len(d))
	dates := make([]time.Time, 0, len(d))
	for _, s := range d {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}

		t, err := time.Parse(calendar.DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		dates = append(dates, t)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// NewDateList normalizes raw date strings into a deduplicated, ascending list.
func NewDateList(raw []string) (DateList, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if _, err := time.Parse(calendar.DateLayout, s); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Strings(out)
	return out, nil
}
