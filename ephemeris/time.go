package ephemeris

import (
	"fmt"
	"strings"
	"time"
)

// j2000Epoch is 2000-01-01 12:00:00 UTC, the zero point of ephemeris
// time used throughout this package.
var j2000Epoch = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// etOfUTC parses a NAIF-style calendar string, e.g. "2013-NOV-20" or
// "2013-NOV-20 14:30:00", and returns seconds past J2000.
func etOfUTC(utc string) (float64, error) {
	utc = strings.TrimSpace(utc)
	datePart := utc
	timePart := "00:00:00"
	if idx := strings.IndexByte(utc, ' '); idx >= 0 {
		datePart = utc[:idx]
		timePart = strings.TrimSpace(utc[idx+1:])
	}
	fields := strings.Split(datePart, "-")
	if len(fields) != 3 {
		return 0, fmt.Errorf("ephemeris: malformed UTC date %q", utc)
	}
	var year, day int
	if _, err := fmt.Sscanf(fields[0], "%d", &year); err != nil {
		return 0, fmt.Errorf("ephemeris: malformed year in %q: %w", utc, err)
	}
	month, ok := monthAbbrev[strings.ToUpper(fields[1])]
	if !ok {
		return 0, fmt.Errorf("ephemeris: unknown month %q in %q", fields[1], utc)
	}
	if _, err := fmt.Sscanf(fields[2], "%d", &day); err != nil {
		return 0, fmt.Errorf("ephemeris: malformed day in %q: %w", utc, err)
	}
	var hour, min, sec int
	if _, err := fmt.Sscanf(timePart, "%d:%d:%d", &hour, &min, &sec); err != nil {
		return 0, fmt.Errorf("ephemeris: malformed time of day in %q: %w", utc, err)
	}
	t := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	return t.Sub(j2000Epoch).Seconds(), nil
}
