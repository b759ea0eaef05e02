package tools

import (
	"strings"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"utc with Z", "2020-01-01T00:00:00Z", "2020-01-01T00:00:00.000Z"},
		{"fractional seconds", "2019-08-14T07:04:41.123456Z", "2019-08-14T07:04:41.123Z"},
		{"positive offset", "2021-03-04T10:00:00+02:00", "2021-03-04T08:00:00.000Z"},
		{"compact offset", "2021-03-04T10:00:00+0200", "2021-03-04T08:00:00.000Z"},
		{"T without zone is UTC", "2021-03-04T10:00:00", "2021-03-04T10:00:00.000Z"},
		{"lowercase t and z", "2021-03-04t10:00:00z", "2021-03-04T10:00:00.000Z"},
		{"bare date", "2020-01-01", "2020-01-01T00:00:00.000Z"},
		{"space separated", "2018-05-18 23:33:35", "2018-05-18T23:33:35.000Z"},
		{"slash month first", "09/15/1997", "1997-09-15T00:00:00.000Z"},
		{"slash day first when month invalid", "15/09/1997", "1997-09-15T00:00:00.000Z"},
		{"slash single digits", "1/2/2003", "2003-01-02T00:00:00.000Z"},
		{"day month name year", "15-Sep-1997", "1997-09-15T00:00:00.000Z"},
		{"upper case month name", "02-OCT-2024", "2024-10-02T00:00:00.000Z"},
		{"surrounding whitespace", "  2020-01-01\r", "2020-01-01T00:00:00.000Z"},
		{"unparseable", "invalid-date", "invalid-date"},
		{"unparseable is trimmed", "  invalid-date  ", "invalid-date"},
		{"slash with no valid reading", "31/31/2020", "31/31/2020"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// The slash heuristic cannot tell 03/04 (March 4th) from 3 April; month first
// always wins when both readings are valid.
func TestNormalizeDate_AmbiguousSlashPrefersMonthFirst(t *testing.T) {
	got := NormalizeDate("03/04/2022")
	if got != "2022-03-04T00:00:00.000Z" {
		t.Errorf("Expected month-first reading, got %q", got)
	}
}

func TestNormalizeDate_CanonicalIsStable(t *testing.T) {
	inputs := []string{"2020-01-01", "2018-05-18 23:33:35", "15-Sep-1997", "2021-03-04T10:00:00+02:00"}
	for _, input := range inputs {
		once := NormalizeDate(input)
		twice := NormalizeDate(once)
		if once != twice {
			t.Errorf("Normalizing %q is not idempotent: %q then %q", input, once, twice)
		}
		if !strings.HasSuffix(once, "Z") || len(once) != len("2006-01-02T15:04:05.000Z") {
			t.Errorf("Expected canonical timestamp for %q, got %q", input, once)
		}
	}
}

func TestFindDate(t *testing.T) {
	tests := []struct {
		line  string
		want  string
		found bool
	}{
		{"Creation Date: 2020-01-01T00:00:00Z", "2020-01-01T00:00:00Z", true},
		{"Registry Expiry Date: 2028-09-13T04:00:00.000+00:00", "2028-09-13T04:00:00.000+00:00", true},
		{"Registration Time: 2003-03-17 12:20:05", "2003-03-17 12:20:05", true},
		{"created: 2001-02-03", "2001-02-03", true},
		{"Expires on: 15-Sep-2030", "15-Sep-2030", true},
		{"Record created on 09/15/1997.", "09/15/1997", true},
		{"Domain Status: ok", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, found := FindDate(tt.line)
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
