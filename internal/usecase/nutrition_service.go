package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/pantrylens/backend/internal/domain"
)

// NutritionServiceConfig holds configuration for the nutrition parsing service
type NutritionServiceConfig struct {
	EnableDebugLogging bool
}

// NutritionService extracts nutrition-fact fields from noisy OCR label text
type NutritionService struct {
	enableDebugLogging bool
}

// NewNutritionService creates a new nutrition parsing service
func NewNutritionService(config NutritionServiceConfig) *NutritionService {
	return &NutritionService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ParseLabel runs the nutrition pattern library over the text and returns
// the raw extracted fields. Validation is a separate pass (Validate) so
// callers can inspect what was read before implausible values are dropped.
func (s *NutritionService) ParseLabel(text string) (*domain.NutritionFacts, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeLabelText(text)
	facts := &domain.NutritionFacts{
		Format: DetectLabelFormat(normalized),
	}

	found := 0
	for _, rule := range fieldRules {
		if value, ok := s.matchField(normalized, rule); ok {
			rule.assign(facts, value)
			found++
		}
	}

	if value, unit, ok := s.matchServingSize(normalized); ok {
		facts.ServingSize = &value
		facts.ServingSizeUnit = unit
		found++
	}

	// Not a calibrated probability: a panel with more recognized fields is
	// a more trustworthy read.
	facts.Confidence = domain.ClampConfidence(0.4 + 0.06*float64(found))
	if found == 0 {
		facts.Confidence = 0
	}

	if s.enableDebugLogging {
		log.Printf("[NUTRITION] Parsed %d fields (format=%s, confidence=%.2f)", found, facts.Format, facts.Confidence)
	}

	return facts, nil
}

// matchField tries a field's variants in order and returns the first value
// that parses, converted to the field's storage unit.
func (s *NutritionService) matchField(normalized string, rule fieldRule) (float64, bool) {
	for _, pattern := range rule.patterns {
		for _, m := range pattern.FindAllStringSubmatch(normalized, -1) {
			value, ok := parseFieldValue(m[1], m[2], rule.unit)
			if !ok {
				continue
			}
			if s.enableDebugLogging {
				log.Printf("[NUTRITION] %s = %v %s (from %q)", rule.name, value, rule.unit, m[0])
			}
			return value, true
		}
	}
	return 0, false
}

func (s *NutritionService) matchServingSize(normalized string) (float64, string, bool) {
	for _, pattern := range servingSizePatterns {
		m := pattern.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		value, ok := parseNumericFragment(m[1])
		if !ok {
			continue
		}
		unit, ok := CanonicalUnit(m[2])
		if !ok {
			unit = strings.ToLower(m[2])
		}
		return value, unit, true
	}
	return 0, "", false
}

// parseFieldValue fixes OCR confusions in the captured fragment, parses the
// number and converts it into the field's storage unit. Percent captures
// are daily-value percentages, not amounts, and do not match.
func parseFieldValue(rawValue, rawUnit, storageUnit string) (float64, bool) {
	if rawUnit == "%" {
		return 0, false
	}

	value, ok := parseNumericFragment(rawValue)
	if !ok {
		return 0, false
	}

	unit := strings.ToUpper(strings.TrimSpace(rawUnit))
	switch storageUnit {
	case "g":
		switch unit {
		case "", "G":
			return value, true
		case "MG":
			return value / 1000, true
		}
	case "mg":
		switch unit {
		case "", "MG":
			return value, true
		case "G":
			return value * 1000, true
		case "MCG":
			return value / 1000, true
		}
	case "mcg":
		switch unit {
		case "", "MCG", "IU":
			return value, true
		case "MG":
			return value * 1000, true
		}
	case "kcal":
		switch unit {
		case "", "CAL", "KCAL":
			return value, true
		case "KJ":
			return KilojoulesToKilocalories(value), true
		}
	}
	return 0, false
}

// parseNumericFragment parses a captured numeric token after running the
// unconditional OCR digit fixup on it.
func parseNumericFragment(raw string) (float64, bool) {
	fixed := FixOCRDigits(raw)
	value, err := strconv.ParseFloat(fixed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Validate applies the per-field plausibility windows, clearing any value
// outside its window back to absent, then runs cross-field derivation.
// This is a silent filter, not an error path.
func (s *NutritionService) Validate(facts *domain.NutritionFacts) {
	if facts == nil {
		return
	}

	checks := []struct {
		name string
		ptr  **float64
	}{
		{"calories", &facts.Calories},
		{"totalFat", &facts.TotalFat},
		{"saturatedFat", &facts.SaturatedFat},
		{"transFat", &facts.TransFat},
		{"cholesterol", &facts.Cholesterol},
		{"sodium", &facts.Sodium},
		{"salt", &facts.Salt},
		{"totalCarbohydrate", &facts.TotalCarbohydrate},
		{"dietaryFiber", &facts.DietaryFiber},
		{"totalSugars", &facts.TotalSugars},
		{"addedSugars", &facts.AddedSugars},
		{"protein", &facts.Protein},
		{"vitaminD", &facts.VitaminD},
		{"calcium", &facts.Calcium},
		{"iron", &facts.Iron},
		{"potassium", &facts.Potassium},
		{"vitaminA", &facts.VitaminA},
		{"vitaminC", &facts.VitaminC},
		{"servingSize", &facts.ServingSize},
	}

	for _, check := range checks {
		if *check.ptr == nil {
			continue
		}
		window := nutritionRanges[check.name]
		if **check.ptr < window[0] || **check.ptr > window[1] {
			if s.enableDebugLogging {
				log.Printf("[NUTRITION] Dropped implausible %s = %v", check.name, **check.ptr)
			}
			*check.ptr = nil
		}
	}

	// EU panels list salt instead of sodium. The derived value is subject
	// to sodium's own window, which is tighter than salt's in mg terms.
	if facts.Sodium == nil && facts.Salt != nil {
		derived := DeriveSodiumFromSalt(*facts.Salt)
		window := nutritionRanges["sodium"]
		if derived >= window[0] && derived <= window[1] {
			facts.Sodium = &derived
		} else if s.enableDebugLogging {
			log.Printf("[NUTRITION] Dropped implausible derived sodium = %v", derived)
		}
	}
}
