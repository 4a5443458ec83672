package usecases

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

type dayPeriods struct {
	am, pm string
	prefix bool // period before the clock, e.g. 午後3:04:05
}

var (
	periodLocales = []language.Tag{
		language.English,
		language.Spanish,
		language.German,
		language.Japanese,
	}
	periodMatcher = language.NewMatcher(periodLocales)
	periodLabels  = []dayPeriods{
		{am: "AM", pm: "PM"},
		{am: "a. m.", pm: "p. m."},
		{am: "AM", pm: "PM"},
		{am: "午前", pm: "午後", prefix: true},
	}
)

// localLayout covers ISO-8601 timestamps that carry no zone offset.
const localLayout = "2006-01-02T15:04:05.999999999"

// TimestampFormatter renders generated_at values as a 12-hour wall clock
// (h:mm:ss with a day period) for one locale and time zone.
type TimestampFormatter struct {
	loc     *time.Location
	periods dayPeriods
}

// NewTimestampFormatter builds a formatter. locale may be a BCP 47 tag or an
// Accept-Language list; unsupported locales fall back to English. An empty
// zone means the process's local zone.
func NewTimestampFormatter(locale, zone string) (*TimestampFormatter, error) {
	loc := time.Local
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load time zone %q: %w", zone, err)
		}
		loc = l
	}

	_, idx := language.MatchStrings(periodMatcher, locale)
	return &TimestampFormatter{loc: loc, periods: periodLabels[idx]}, nil
}

// Format returns the display form of an ISO-8601 timestamp, or "" when the
// value cannot be parsed.
func (f *TimestampFormatter) Format(generatedAt string) string {
	if generatedAt == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		t, err = time.ParseInLocation(localLayout, generatedAt, f.loc)
		if err != nil {
			return ""
		}
	}
	t = t.In(f.loc)

	period := f.periods.am
	if t.Hour() >= 12 {
		period = f.periods.pm
	}
	clock := t.Format("3:04:05")
	if f.periods.prefix {
		return period + clock
	}
	return clock + " " + period
}
