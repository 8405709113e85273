// Package timeutil parses report windows and renders group ages.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the report window used when none is given.
const DefaultWindow = "1d"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var (
	segment = regexp.MustCompile(`^(\d+)([a-z]+)`)
	units   = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
		"d": day, "day": day, "days": day,
		"w": week, "wk": week, "wks": week,
	}
	labels = []struct {
		suffix string
		unit   time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}, {"s", time.Second}}
)

// ParseWindow reads compact windows such as "3d", "12h" or "1w2d" and returns
// the duration with its canonical label.
func ParseWindow(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.Join(strings.Fields(input), ""))
	if rest == "" {
		rest = DefaultWindow
	}
	var total time.Duration
	for rest != "" {
		m := segment.FindStringSubmatch(rest)
		if m == nil {
			return 0, "", fmt.Errorf("timeutil: invalid window segment %q", rest)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unknown window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		rest = rest[len(m[0]):]
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window must be positive")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with week, day, hour, minute and second tokens.
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, l := range labels {
		if d < l.unit {
			continue
		}
		fmt.Fprintf(&b, "%d%s", d/l.unit, l.suffix)
		d %= l.unit
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// Ago renders the age of a millisecond timestamp with its largest unit, like
// "3d ago". Zero timestamps render as "never".
func Ago(ms int64, now time.Time) string {
	if ms == 0 {
		return "never"
	}
	d := now.Sub(time.UnixMilli(ms))
	if d < time.Minute {
		return "just now"
	}
	for _, l := range labels {
		if d >= l.unit {
			return fmt.Sprintf("%d%s ago", d/l.unit, l.suffix)
		}
	}
	return "just now"
}
