package zone

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is an instant written as RFC 3339. RFC 3339 input is written back
// exactly as it was read; other layouts accepted by LaxScalars are rewritten.
type DateTime struct {
	time.Time

	text string
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.text != "" {
		return json.Marshal(t.text)
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

var laxDateTimeLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (d *decoder) dateTime(p Path, v interface{}) *DateTime {
	s, ok := d.str(p, v)
	if !ok {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &DateTime{Time: t, text: s}
	}
	if d.opts.LaxScalars {
		for _, layout := range laxDateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &DateTime{Time: t}
			}
		}
	}
	d.fail(p, KindConstraintViolation, nil, "expected an RFC 3339 date and time, got %q", s)
	return nil
}

// TimeOfDay is a wall clock time with an optional offset. It is written back
// exactly as it was read.
type TimeOfDay struct {
	t    time.Time
	text string
}

// Clock returns the hour, minute and second of the time.
func (t TimeOfDay) Clock() (hour, min, sec int) {
	return t.t.Clock()
}

// Location returns the offset the time was given in, or UTC.
func (t TimeOfDay) Location() *time.Location {
	return t.t.Location()
}

func (t TimeOfDay) String() string {
	return t.text
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.text)
}

// Fractional seconds are accepted by time.Parse after the seconds field even
// though the layouts do not mention them.
var timeOfDayLayouts = []string{
	"15:04:05Z07:00",
	"15:04:05",
	"15:04Z07:00",
	"15:04",
}

// ParseTimeOfDay parses a time such as 16:00:00Z or 09:30.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{t: t, text: s}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("expected a time of day (HH:MM[:SS][offset]), got %q", s)
}

func (d *decoder) timeOfDay(p Path, v interface{}) *TimeOfDay {
	s, ok := d.str(p, v)
	if !ok {
		return nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		d.fail(p, KindConstraintViolation, nil, "%v", err)
		return nil
	}
	return &t
}

// Duration is a time interval written as an ISO 8601 duration.
type Duration struct {
	time.Duration
}

func (d Duration) String() string {
	return FormatISODuration(d.Duration)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatISODuration(d.Duration))
}

// ErrDurationRange is returned for durations that do not fit in a
// time.Duration, about 292 years.
var ErrDurationRange = errors.New("duration out of range")

var (
	isoDurationPattern = regexp.MustCompile(
		`^([-+])?P(?:(\d+(?:[.,]\d+)?)Y)?(?:(\d+(?:[.,]\d+)?)M)?(?:(\d+(?:[.,]\d+)?)W)?(?:(\d+(?:[.,]\d+)?)D)?(T(?:(\d+(?:[.,]\d+)?)H)?(?:(\d+(?:[.,]\d+)?)M)?(?:(\d+(?:[.,]\d+)?)S)?)?$`)
	clockDurationPattern = regexp.MustCompile(
		`^(-)?(?:(\d+) days?, )?(\d{1,2}):(\d{2})(?::(\d{2}(?:\.\d{1,9})?))?$`)
)

// ParseISODuration parses durations such as P1D, PT2H30M or P1W. Years and
// months are rejected since their length is ambiguous.
func ParseISODuration(s string) (time.Duration, error) {
	return parseISODuration(s, false)
}

const (
	calendarYear  = 365 * 24 * time.Hour
	calendarMonth = 30 * 24 * time.Hour
)

// parseISODuration also accepts years and months when calendar is set,
// counting 365 and 30 days.
func parseISODuration(s string, calendar bool) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") || m[0] == m[1]+"P" {
		return 0, fmt.Errorf("expected an ISO 8601 duration, got %q", s)
	}
	if !calendar && (m[2] != "" || m[3] != "") {
		return 0, fmt.Errorf("years and months have no fixed length, got %q", s)
	}
	units := []struct {
		group int
		unit  time.Duration
	}{
		{2, calendarYear},
		{3, calendarMonth},
		{4, 7 * 24 * time.Hour},
		{5, 24 * time.Hour},
		{7, time.Hour},
		{8, time.Minute},
		{9, time.Second},
	}
	var total time.Duration
	for _, u := range units {
		if m[u.group] == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.Replace(m[u.group], ",", ".", 1), 64)
		if err != nil {
			return 0, fmt.Errorf("expected an ISO 8601 duration, got %q", s)
		}
		part, err := scaleDuration(f, u.unit)
		if err == nil {
			total, err = addDuration(total, part)
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %q", err, s)
		}
	}
	if m[1] == "-" {
		total = -total
	}
	return total, nil
}

// FormatISODuration writes a duration as PnDTnHnMnS, leaving out zero parts.
func FormatISODuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dD", days)
		d -= days * 24 * time.Hour
	}
	if d == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
		d -= m * time.Minute
	}
	if d > 0 {
		b.WriteString(strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
		b.WriteByte('S')
	}
	return b.String()
}

// scaleDuration returns n times unit.
func scaleDuration(n float64, unit time.Duration) (time.Duration, error) {
	f := n * float64(unit)
	if math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, ErrDurationRange
	}
	return time.Duration(f), nil
}

func addDuration(a, b time.Duration) (time.Duration, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrDurationRange
	}
	return sum, nil
}

var errNotClock = errors.New("not a clock duration")

// parseClockDuration parses the "[D day[s], ]H:MM[:SS[.f]]" form.
func parseClockDuration(s string) (time.Duration, error) {
	m := clockDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errNotClock
	}
	parts := make([]time.Duration, 0, 4)
	if m[2] != "" {
		days, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, errNotClock
		}
		day, err := scaleDuration(days, 24*time.Hour)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", err, s)
		}
		parts = append(parts, day)
	}
	h, _ := strconv.Atoi(m[3])
	min, _ := strconv.Atoi(m[4])
	parts = append(parts, time.Duration(h)*time.Hour+time.Duration(min)*time.Minute)
	if m[5] != "" {
		sec, _ := strconv.ParseFloat(m[5], 64)
		parts = append(parts, time.Duration(sec*float64(time.Second)))
	}
	var total time.Duration
	for _, part := range parts {
		var err error
		if total, err = addDuration(total, part); err != nil {
			return 0, fmt.Errorf("%w: %q", err, s)
		}
	}
	if m[1] == "-" {
		total = -total
	}
	return total, nil
}

// duration decodes an ISO 8601 duration. LaxScalars also accepts years and
// months, the clock form and a number of seconds.
func (d *decoder) duration(p Path, v interface{}) *Duration {
	if s, ok := v.(string); ok {
		dur, err := parseISODuration(s, d.opts.LaxScalars)
		if err != nil && d.opts.LaxScalars && !errors.Is(err, ErrDurationRange) {
			if cdur, cerr := parseClockDuration(s); cerr != errNotClock {
				dur, err = cdur, cerr
			}
		}
		if err != nil {
			d.fail(p, KindConstraintViolation, nil, "%v", err)
			return nil
		}
		return &Duration{dur}
	}
	if d.opts.LaxScalars && jsonType(v) == "number" {
		secs, ok := d.number(p, v)
		if !ok {
			return nil
		}
		dur, err := scaleDuration(secs, time.Second)
		if err != nil {
			d.fail(p, KindConstraintViolation, nil, "%v: %v seconds", err, secs)
			return nil
		}
		return &Duration{dur}
	}
	d.fail(p, KindTypeMismatch, nil, "expected string, got %s", jsonType(v))
	return nil
}
