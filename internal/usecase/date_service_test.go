package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pantrylens/backend/internal/domain"
)

// fixedClock pins "now" so century resolution, Julian decoding and the
// plausibility window are deterministic.
func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func newTestDateService(clock func() time.Time) *DateService {
	return NewDateService(DateServiceConfig{Clock: clock})
}

func TestExtractDate_Formats(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	tests := []struct {
		name       string
		text       string
		wantDate   string
		wantFormat string
	}{
		{"iso dash", "2025-12-25", "2025-12-25", "yyyy-MM-dd"},
		{"iso slash", "2025/12/25", "2025-12-25", "yyyy/MM/dd"},
		{"us slash", "12/25/2025", "2025-12-25", "MM/dd/yyyy"},
		{"eu slash day first", "25/12/2025", "2025-12-25", "dd/MM/yyyy"},
		{"us dash", "12-25-2025", "2025-12-25", "MM-dd-yyyy"},
		{"eu dotted", "25.12.2025", "2025-12-25", "dd.MM.yyyy"},
		{"month name first", "DEC 25 2025", "2025-12-25", "MMM dd yyyy"},
		{"full month name", "December 25, 2025", "2025-12-25", "MMM dd yyyy"},
		{"day before month name", "25 DEC 2025", "2025-12-25", "dd MMM yyyy"},
		{"us slash short year", "12/25/25", "2025-12-25", "MM/dd/yy"},
		{"eu dotted short year", "25.12.25", "2025-12-25", "dd.MM.yy"},
		{"compact ymd", "20251225", "2025-12-25", "yyyyMMdd"},
		{"compact mdy", "12252025", "2025-12-25", "MMddyyyy"},
		{"compact mdy short", "122525", "2025-12-25", "MMddyy"},
		{"ocr confused digits", "2O25-12-25", "2025-12-25", "yyyy-MM-dd"},
		{"ocr confused month name", "OCT 12 2025", "2025-10-12", "MMM dd yyyy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := svc.ExtractDate(tt.text)
			if err != nil {
				t.Fatalf("ExtractDate(%q) error = %v", tt.text, err)
			}
			if got := candidate.DayKey(); got != tt.wantDate {
				t.Errorf("date = %s, want %s", got, tt.wantDate)
			}
			if candidate.FormatUsed != tt.wantFormat {
				t.Errorf("formatUsed = %s, want %s", candidate.FormatUsed, tt.wantFormat)
			}
		})
	}
}

func TestExtractDate_PrefixBoost(t *testing.T) {
	svc := newTestDateService(fixedClock(2024, time.June, 15))

	candidate, err := svc.ExtractDate("BEST BY 12/25/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := candidate.DayKey(); got != "2024-12-25" {
		t.Errorf("date = %s, want 2024-12-25", got)
	}
	if candidate.FormatUsed != "MM/dd/yyyy" {
		t.Errorf("formatUsed = %s, want MM/dd/yyyy", candidate.FormatUsed)
	}
	// 0.9 base for MM/dd/yyyy plus the 0.10 prefix boost, capped at 1.0
	if math.Abs(candidate.Confidence-1.0) > 1e-9 {
		t.Errorf("confidence = %v, want 1.0", candidate.Confidence)
	}
}

func TestExtractDate_PrefixBoostCapped(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	candidate, err := svc.ExtractDate("EXP 2025-12-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.95 + 0.10 would exceed 1.0; confidence is clamped
	if candidate.Confidence > 1.0 {
		t.Errorf("confidence = %v, want <= 1.0", candidate.Confidence)
	}
}

func TestExtractDate_PrefixInsideWordDoesNotBoost(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	// "BB" appears inside HUBBARD but is not a standalone keyword
	candidate, err := svc.ExtractDate("HUBBARD SQUASH 12/25/2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := candidate.DayKey(); got != "2025-12-25" {
		t.Errorf("date = %s, want 2025-12-25", got)
	}
	if math.Abs(candidate.Confidence-0.90) > 1e-9 {
		t.Errorf("confidence = %v, want unboosted 0.90", candidate.Confidence)
	}

	// The same keyword on its own word still boosts
	boosted, err := svc.ExtractDate("BB 12/25/2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(boosted.Confidence-1.0) > 1e-9 {
		t.Errorf("confidence = %v, want boosted 1.0", boosted.Confidence)
	}
}

func TestExtractDate_InvalidCalendarDatesAreNonMatches(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	// Month 13 and Feb 30 never parse; no error either way
	for _, text := range []string{"13/45/2025", "02/30/2025"} {
		if _, err := svc.ExtractDate(text); !errors.Is(err, domain.ErrNoCandidates) {
			t.Errorf("ExtractDate(%q) error = %v, want ErrNoCandidates", text, err)
		}
	}
}

func TestExtractDate_EmptyText(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))
	if _, err := svc.ExtractDate("  "); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestTwoDigitYearResolution(t *testing.T) {
	t.Run("pre-1970 years read as 2000s", func(t *testing.T) {
		now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		if got := resolveTwoDigitYear(25, now); got != 2025 {
			t.Errorf("resolveTwoDigitYear(25) = %d, want 2025", got)
		}
		if got := resolveTwoDigitYear(2, now); got != 2002 {
			t.Errorf("resolveTwoDigitYear(2) = %d, want 2002", got)
		}
	})

	t.Run("1970s and later stay in the 1900s", func(t *testing.T) {
		now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		if got := resolveTwoDigitYear(95, now); got != 1995 {
			t.Errorf("resolveTwoDigitYear(95) = %d, want 1995", got)
		}
	})

	t.Run("more than 50 years in the future pulls back a century", func(t *testing.T) {
		now := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)
		// 65 -> 1965 -> 2065, which is > 2060, so back to 1965
		if got := resolveTwoDigitYear(65, now); got != 1965 {
			t.Errorf("resolveTwoDigitYear(65) = %d, want 1965", got)
		}
	})
}

func TestJulianDecoding(t *testing.T) {
	now := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("decodes year digit and day of year", func(t *testing.T) {
		date, ok := decodeJulianCode("1045", now)
		if !ok {
			t.Fatal("decodeJulianCode(1045) did not match")
		}
		if got := date.Format("2006-01-02"); got != "2021-02-14" {
			t.Errorf("date = %s, want 2021-02-14 (day 45 of 2021)", got)
		}
	})

	t.Run("rejects day zero", func(t *testing.T) {
		if _, ok := decodeJulianCode("1000", now); ok {
			t.Error("decodeJulianCode(1000) matched, want non-match")
		}
	})

	t.Run("rejects day 366 of a non-leap year", func(t *testing.T) {
		if _, ok := decodeJulianCode("1366", now); ok {
			t.Error("decodeJulianCode(1366) matched for 2021, want non-match")
		}
	})

	t.Run("accepts day 366 of a leap year", func(t *testing.T) {
		leapNow := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		date, ok := decodeJulianCode("4366", leapNow)
		if !ok {
			t.Fatal("decodeJulianCode(4366) did not match for 2024")
		}
		if got := date.Format("2006-01-02"); got != "2024-12-31" {
			t.Errorf("date = %s, want 2024-12-31", got)
		}
	})

	t.Run("extracts through the rule library", func(t *testing.T) {
		svc := newTestDateService(fixedClock(2021, time.June, 15))
		candidate, err := svc.ExtractDate("LOT A 1045")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidate.FormatUsed != "YDDD" {
			t.Errorf("formatUsed = %s, want YDDD", candidate.FormatUsed)
		}
		if got := candidate.DayKey(); got != "2021-02-14" {
			t.Errorf("date = %s, want 2021-02-14", got)
		}
	})
}

func TestPlausibilityWindow(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	tests := []struct {
		name   string
		text   string
		accept bool
	}{
		{"7 months in the past rejected", "2024-11-10", false},
		{"5 months in the past accepted", "2025-01-15", true},
		{"11 years in the future rejected", "2036-06-15", false},
		{"9 years in the future accepted", "2034-06-15", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := svc.FindAllDates(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(candidates) > 0; got != tt.accept {
				t.Errorf("accepted = %v, want %v (candidates: %v)", got, tt.accept, candidates)
			}
		})
	}
}

func TestFindAllDates(t *testing.T) {
	svc := newTestDateService(fixedClock(2025, time.June, 15))

	t.Run("dedupes formats resolving to the same day", func(t *testing.T) {
		candidates, err := svc.FindAllDates("2025-12-25 or 12/25/2025")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("got %d candidates, want 1: %v", len(candidates), candidates)
		}
		// The ISO rule is declared first and scores higher, so it keeps
		// the collapsed candidate.
		if candidates[0].RuleID != "iso-dash" {
			t.Errorf("ruleId = %s, want iso-dash", candidates[0].RuleID)
		}
	})

	t.Run("sorts by confidence descending", func(t *testing.T) {
		candidates, err := svc.FindAllDates("12/25/2025 and 2026-01-31")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("got %d candidates, want 2: %v", len(candidates), candidates)
		}
		if candidates[0].FormatUsed != "yyyy-MM-dd" {
			t.Errorf("top candidate format = %s, want yyyy-MM-dd", candidates[0].FormatUsed)
		}
		if candidates[0].Confidence < candidates[1].Confidence {
			t.Error("candidates not sorted by confidence descending")
		}
	})

	t.Run("empty result for dateless text", func(t *testing.T) {
		candidates, err := svc.FindAllDates("WHOLE MILK ONE GALLON")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("got %d candidates, want 0: %v", len(candidates), candidates)
		}
	})
}
