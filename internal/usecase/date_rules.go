package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRule is a single entry in the ordered date pattern library. Rules are
// declared most-specific-first; declaration order is the tie-break when two
// candidates carry the same confidence.
type dateRule struct {
	id             string
	formatUsed     string
	matcher        *regexp.Regexp
	baseConfidence float64
	// parse turns a regexp submatch into a calendar date. A false return
	// is an ordinary non-match (e.g. month slot 25), never an error.
	parse func(m []string, now time.Time) (time.Time, bool)
}

// dateRules is the date pattern library, ordered by priority. ISO dates are
// the least ambiguous and score highest; compact digit runs and Julian
// codes are the most ambiguous and score lowest.
var dateRules = []dateRule{
	{
		id:             "iso-dash",
		formatUsed:     "yyyy-MM-dd",
		matcher:        regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
		baseConfidence: 0.95,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		id:             "iso-slash",
		formatUsed:     "yyyy/MM/dd",
		matcher:        regexp.MustCompile(`\b(\d{4})/(\d{1,2})/(\d{1,2})\b`),
		baseConfidence: 0.90,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		id:             "us-slash",
		formatUsed:     "MM/dd/yyyy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		baseConfidence: 0.90,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
		},
	},
	{
		id:             "eu-slash",
		formatUsed:     "dd/MM/yyyy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		baseConfidence: 0.85,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			// Only unambiguously day-first tokens; anything that could
			// be MM/dd is claimed by the us-slash rule above.
			if atoi(m[1]) <= 12 {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		id:             "us-dash",
		formatUsed:     "MM-dd-yyyy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`),
		baseConfidence: 0.85,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
		},
	},
	{
		id:             "eu-dot",
		formatUsed:     "dd.MM.yyyy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`),
		baseConfidence: 0.85,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		id:             "month-name-first",
		formatUsed:     "MMM dd yyyy",
		matcher:        regexp.MustCompile(`\b([A-Z0-9]{3,9})\.? (\d{1,2}),? (\d{4})\b`),
		baseConfidence: 0.85,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			month, ok := monthTokens[m[1]]
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), int(month), atoi(m[2]))
		},
	},
	{
		id:             "day-month-name",
		formatUsed:     "dd MMM yyyy",
		matcher:        regexp.MustCompile(`\b(\d{1,2}) ([A-Z0-9]{3,9})\.? (\d{4})\b`),
		baseConfidence: 0.85,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			month, ok := monthTokens[m[2]]
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), int(month), atoi(m[1]))
		},
	},
	{
		id:             "us-slash-short",
		formatUsed:     "MM/dd/yy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2})\b`),
		baseConfidence: 0.75,
		parse: func(m []string, now time.Time) (time.Time, bool) {
			return makeDate(resolveTwoDigitYear(atoi(m[3]), now), atoi(m[1]), atoi(m[2]))
		},
	},
	{
		id:             "eu-dot-short",
		formatUsed:     "dd.MM.yy",
		matcher:        regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2})\b`),
		baseConfidence: 0.70,
		parse: func(m []string, now time.Time) (time.Time, bool) {
			return makeDate(resolveTwoDigitYear(atoi(m[3]), now), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		id:             "compact-ymd",
		formatUsed:     "yyyyMMdd",
		matcher:        regexp.MustCompile(`\b(\d{8})\b`),
		baseConfidence: 0.70,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			tok := m[1]
			year := atoi(tok[:4])
			if year < 1900 || year > 2100 {
				return time.Time{}, false
			}
			return makeDate(year, atoi(tok[4:6]), atoi(tok[6:8]))
		},
	},
	{
		id:             "compact-mdy",
		formatUsed:     "MMddyyyy",
		matcher:        regexp.MustCompile(`\b(\d{8})\b`),
		baseConfidence: 0.65,
		parse: func(m []string, _ time.Time) (time.Time, bool) {
			tok := m[1]
			year := atoi(tok[4:8])
			if year < 1900 || year > 2100 {
				return time.Time{}, false
			}
			return makeDate(year, atoi(tok[:2]), atoi(tok[2:4]))
		},
	},
	{
		id:             "compact-mdy-short",
		formatUsed:     "MMddyy",
		matcher:        regexp.MustCompile(`\b(\d{6})\b`),
		baseConfidence: 0.60,
		parse: func(m []string, now time.Time) (time.Time, bool) {
			tok := m[1]
			return makeDate(resolveTwoDigitYear(atoi(tok[4:6]), now), atoi(tok[:2]), atoi(tok[2:4]))
		},
	},
	{
		id:             "julian",
		formatUsed:     "YDDD",
		matcher:        regexp.MustCompile(`\b(\d{4})\b`),
		baseConfidence: 0.60,
		parse: func(m []string, now time.Time) (time.Time, bool) {
			return decodeJulianCode(m[1], now)
		},
	},
}

// monthTokens maps normalized month tokens to months. The date normalizer
// substitutes O->0, I->1 and l->1 unconditionally, so the table carries the
// substituted spellings ("0CT", "APR1L") alongside the clean ones that
// survive normalization untouched.
var monthTokens = map[string]time.Month{
	"JAN": time.January, "JANUARY": time.January,
	"FEB": time.February, "FEBRUARY": time.February,
	"MAR": time.March, "MARCH": time.March,
	"APR": time.April, "APR1L": time.April, "APR11": time.April,
	"MAY": time.May,
	"JUN": time.June, "JUNE": time.June,
	"JUL": time.July, "JU1": time.July, "JULY": time.July, "JU1Y": time.July,
	"AUG": time.August, "AUGUST": time.August,
	"SEP": time.September, "SEPT": time.September, "SEPTEMBER": time.September,
	"0CT": time.October, "0CT0BER": time.October,
	"N0V": time.November, "N0VEMBER": time.November,
	"DEC": time.December, "DECEMBER": time.December,
}

// resolveTwoDigitYear expands a two-digit year token. A year before 1970 is
// read as 2000s; a year more than 50 years in the future is pulled back a
// century.
func resolveTwoDigitYear(yy int, now time.Time) int {
	year := 1900 + yy
	if year < 1970 {
		year += 100
	}
	if year > now.Year()+50 {
		year -= 100
	}
	return year
}

// decodeJulianCode decodes a packaging Julian code: last digit of the year
// followed by a 1-366 day-of-year, the year resolved within the current
// decade.
func decodeJulianCode(token string, now time.Time) (time.Time, bool) {
	yearDigit := atoi(token[:1])
	dayOfYear := atoi(token[1:])
	if dayOfYear < 1 || dayOfYear > 366 {
		return time.Time{}, false
	}

	year := (now.Year()/10)*10 + yearDigit
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	if date.Year() != year {
		// Day 366 of a non-leap year
		return time.Time{}, false
	}
	return date, true
}

// makeDate builds a date and rejects impossible calendar values (month 13,
// Feb 30) by checking that time.Date did not roll the components over.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// atoi parses digit-only tokens already vetted by a regexp
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
