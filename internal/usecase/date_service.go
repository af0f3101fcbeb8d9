package usecase

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/pantrylens/backend/internal/domain"
)

// Plausibility window for expiration dates: anything more than 6 months in
// the past or 10 years in the future is a misread, not an expiry.
const (
	expiryPastWindowMonths  = 6
	expiryFutureWindowYears = 10
)

// prefixSearchWindow bounds how far past a keyword prefix the first-match
// scan looks for a date.
const prefixSearchWindow = 24

// expiryPrefixes are the keyword prefixes that anchor a date on packaging.
// Longer variants come first so "EXP DATE" is not claimed by "EXP".
var expiryPrefixes = []string{
	"BEST BEFORE", "BEST BY", "USE BEFORE", "USE BY", "SELL BY",
	"EXP DATE", "EXPIRES", "EXPIRY", "EXP", "BB",
}

// DateServiceConfig holds configuration for the date extraction service
type DateServiceConfig struct {
	// PrefixBoost is added to the confidence of a candidate anchored by a
	// keyword prefix. Defaults to 0.10.
	PrefixBoost        float64
	EnableDebugLogging bool
	// Clock supplies "now" for century resolution, Julian decoding and the
	// plausibility window. Defaults to time.Now.
	Clock func() time.Time
}

// DateService extracts expiration-date candidates from noisy OCR text
type DateService struct {
	prefixBoost        float64
	enableDebugLogging bool
	clock              func() time.Time
}

// NewDateService creates a new date extraction service with the given configuration
func NewDateService(config DateServiceConfig) *DateService {
	boost := config.PrefixBoost
	if boost <= 0 {
		boost = 0.10
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &DateService{
		prefixBoost:        boost,
		enableDebugLogging: config.EnableDebugLogging,
		clock:              clock,
	}
}

// ExtractDate returns the single best expiration-date candidate for the
// text. When a keyword prefix such as "BEST BY" is present, the first rule
// matching in a bounded window after the prefix wins and gets the prefix
// boost; otherwise the highest-confidence candidate from a full scan wins.
func (s *DateService) ExtractDate(text string) (*domain.DateCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeDateText(text)
	now := s.clock()

	if c := s.extractAfterPrefix(normalized, now); c != nil {
		return c, nil
	}

	candidates := s.findAll(normalized, now)
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}
	return &candidates[0], nil
}

// FindAllDates returns every plausible date candidate in the text,
// deduplicated by calendar day and sorted by confidence descending.
func (s *DateService) FindAllDates(text string) ([]domain.DateCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeDateText(text)
	return s.findAll(normalized, s.clock()), nil
}

// extractAfterPrefix implements the first-match mode: locate the earliest
// keyword prefix and return the first rule match inside the window after it.
func (s *DateService) extractAfterPrefix(normalized string, now time.Time) *domain.DateCandidate {
	prefixIdx, prefixLen := -1, 0
	for _, prefix := range expiryPrefixes {
		idx := wordIndex(normalized, prefix)
		if idx < 0 {
			continue
		}
		if prefixIdx == -1 || idx < prefixIdx || (idx == prefixIdx && len(prefix) > prefixLen) {
			prefixIdx = idx
			prefixLen = len(prefix)
		}
	}
	if prefixIdx < 0 {
		return nil
	}

	start := prefixIdx + prefixLen
	end := start + prefixSearchWindow
	if end > len(normalized) {
		end = len(normalized)
	}
	window := normalized[start:end]

	for _, rule := range dateRules {
		for _, m := range rule.matcher.FindAllStringSubmatch(window, -1) {
			date, ok := rule.parse(m, now)
			if !ok || !s.plausibleExpiry(date, now) {
				continue
			}
			candidate := domain.DateCandidate{
				Date:         date,
				OriginalText: m[0],
				Confidence:   domain.ClampConfidence(rule.baseConfidence + s.prefixBoost),
				RuleID:       rule.id,
				FormatUsed:   rule.formatUsed,
			}
			if s.enableDebugLogging {
				log.Printf("[DATE] Prefix match: %q rule=%s date=%s conf=%.2f",
					m[0], rule.id, candidate.DayKey(), candidate.Confidence)
			}
			return &candidate
		}
	}
	return nil
}

// wordIndex returns the first occurrence of prefix in text that stands on
// its own word, so "BB" never fires inside "HUBBARD". Text is already
// uppercased by normalization.
func wordIndex(text, prefix string) int {
	for start := 0; start+len(prefix) <= len(text); {
		idx := strings.Index(text[start:], prefix)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(prefix)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end == len(text) || !isWordByte(text[end])) {
			return idx
		}
		start = idx + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// findAll implements the find-all mode: every rule over the full text, with
// implausible dates dropped and same-day duplicates collapsed.
func (s *DateService) findAll(normalized string, now time.Time) []domain.DateCandidate {
	byDay := make(map[string]int)
	var candidates []domain.DateCandidate

	for _, rule := range dateRules {
		for _, m := range rule.matcher.FindAllStringSubmatch(normalized, -1) {
			date, ok := rule.parse(m, now)
			if !ok {
				continue
			}
			if !s.plausibleExpiry(date, now) {
				if s.enableDebugLogging {
					log.Printf("[DATE] Dropped implausible %s from %q (rule=%s)",
						date.Format("2006-01-02"), m[0], rule.id)
				}
				continue
			}

			candidate := domain.DateCandidate{
				Date:         date,
				OriginalText: m[0],
				Confidence:   rule.baseConfidence,
				RuleID:       rule.id,
				FormatUsed:   rule.formatUsed,
			}

			// Two formats resolving to the same day collapse to one
			// candidate; the earlier-declared rule keeps it unless a
			// later one is strictly more confident.
			if i, seen := byDay[candidate.DayKey()]; seen {
				if candidate.Confidence > candidates[i].Confidence {
					candidates[i] = candidate
				}
				continue
			}
			byDay[candidate.DayKey()] = len(candidates)
			candidates = append(candidates, candidate)
		}
	}

	// Stable sort keeps declaration order as the tie-break
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if s.enableDebugLogging {
		log.Printf("[DATE] findAll produced %d candidates", len(candidates))
	}
	return candidates
}

// plausibleExpiry is the acceptance window for expiration dates
func (s *DateService) plausibleExpiry(date, now time.Time) bool {
	earliest := now.AddDate(0, -expiryPastWindowMonths, 0)
	latest := now.AddDate(expiryFutureWindowYears, 0, 0)
	return !date.Before(earliest) && !date.After(latest)
}
