package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"sslmon/pkg/models"
)

// dateShape finds a date in a WHOIS line. Alternatives are tried left to
// right at each position, so the full date-time forms come before the bare
// date they start with.
var dateShape = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2}T[\d:.]+(?:Z|[+-]\d{2}:?\d{2})?|\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}|\d{1,2}-[a-z]{3}-\d{4})`)

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FindDate returns the first date-shaped substring of line.
func FindDate(line string) (string, bool) {
	match := dateShape.FindString(line)
	return match, match != ""
}

// NormalizeDate converts a registry date to the canonical UTC timestamp.
// Values without a zone are read as UTC. Input that cannot be read as a date
// is returned trimmed but otherwise unchanged.
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return value
	}

	if t, ok := parseDate(value); ok {
		return models.FormatTimestamp(t)
	}
	return value
}

func parseDate(value string) (time.Time, bool) {
	upper := strings.ToUpper(value)

	// date-time with a T separator, Z suffix or numeric offset
	if strings.Contains(upper, "T") || strings.HasSuffix(upper, "Z") {
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, upper, time.UTC); err == nil {
				return t, true
			}
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		return t, true
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04:05", strings.Join(strings.Fields(value), " "), time.UTC); err == nil {
		return t, true
	}

	// a/b/YYYY is ambiguous: month first, then day first
	if m := slashDate.FindStringSubmatch(value); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		for _, candidate := range []string{
			fmt.Sprintf("%s-%02d-%02d", m[3], a, b),
			fmt.Sprintf("%s-%02d-%02d", m[3], b, a),
		} {
			if t, err := time.ParseInLocation("2006-01-02", candidate, time.UTC); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("2-Jan-2006", value, time.UTC); err == nil {
		return t, true
	}

	return parseAny(value)
}

func parseAny(value string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
