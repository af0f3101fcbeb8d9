package usecase

import (
	"strings"

	"github.com/pantrylens/backend/internal/domain"
)

// Indicator phrase sets per regional labeling standard, matched against
// normalized (uppercased) panel text.
var (
	// Bilingual French phrasing is unique to Canadian panels
	canadianIndicators = []string{
		"VALEUR NUTRITIVE", "VALEURS NUTRITIVES", "% VALEUR QUOTIDIENNE",
		"TENEUR", "LIPIDES / FAT", "GLUCIDES / CARBOHYDRATE",
	}

	ukIndicators = []string{
		"REFERENCE INTAKE", "REFERENCE INTAKES",
		"OF AN ADULT'S REFERENCE INTAKE", "FRONT OF PACK",
	}

	euIndicators = []string{
		"ENERGY", "KJ", "OF WHICH SATURATES", "OF WHICH SUGARS",
		"PER 100G", "PER 100 G", "PER 100ML", "PER 100 ML",
	}

	usIndicators = []string{
		"NUTRITION FACTS", "SERVING SIZE", "SERVINGS PER CONTAINER",
		"% DAILY VALUE", "DAILY VALUE", "AMOUNT PER SERVING",
	}
)

// LabelFormatSignal holds the per-region indicator match counts a panel
// text produced. Derived, never persisted.
type LabelFormatSignal struct {
	US       int `json:"us"`
	EU       int `json:"eu"`
	UK       int `json:"uk"`
	Canadian int `json:"canadian"`
}

// ScoreLabelFormat counts regional indicator matches in normalized text.
func ScoreLabelFormat(normalized string) LabelFormatSignal {
	return LabelFormatSignal{
		US:       countIndicators(normalized, usIndicators),
		EU:       countIndicators(normalized, euIndicators),
		UK:       countIndicators(normalized, ukIndicators),
		Canadian: countIndicators(normalized, canadianIndicators),
	}
}

// DetectLabelFormat classifies which regional standard produced the panel.
// Canadian bilingual indicators take absolute priority, then UK; otherwise
// the larger of the US and EU counts wins, with US taking equal (including
// zero) counts.
func DetectLabelFormat(normalized string) domain.LabelFormat {
	signal := ScoreLabelFormat(normalized)

	if signal.Canadian > 0 {
		return domain.LabelFormatCanadian
	}
	if signal.UK > 0 {
		return domain.LabelFormatUK
	}
	if signal.EU > signal.US {
		return domain.LabelFormatEU
	}
	return domain.LabelFormatUS
}

func countIndicators(text string, indicators []string) int {
	count := 0
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count
}
