package usecase

import (
	"regexp"

	"github.com/pantrylens/backend/internal/domain"
)

// labelValueFragment captures a numeric value (possibly with OCR-confused
// characters, fixed later by FixOCRDigits) and an optional unit following a
// field label. The capture must contain at least one true digit so a
// label's own trailing letters ("CALS") are never read as a value. Percent
// captures are daily-value percentages, not amounts, and are rejected
// during parsing.
const labelValueFragment = `\s*:?\s*([0-9OIS]*[0-9][0-9OIS]*(?:\.[0-9OIS]+)?)\s*(MCG|MG|KCAL|KJ|CAL|IU|G|%)?`

// fieldRule is one nutrition field of the pattern library: an ordered list
// of label-text variants with a numeric capture and the unit the stored
// value is expressed in.
type fieldRule struct {
	name string
	// unit the field is stored in: "g", "mg", "mcg" or "kcal". Captured
	// values in a different recognized unit are converted.
	unit     string
	patterns []*regexp.Regexp
	assign   func(f *domain.NutritionFacts, v float64)
}

// labelPattern compiles one field variant into a value-capturing pattern.
// Variants are matched against normalized (uppercase, single-spaced) text.
func labelPattern(variant string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(variant) + labelValueFragment)
}

func labelPatterns(variants ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(variants))
	for _, v := range variants {
		patterns = append(patterns, labelPattern(v))
	}
	return patterns
}

// fieldRules is the nutrition pattern library. Within a field, variants run
// most-specific-first; the first variant that matches claims the field.
var fieldRules = []fieldRule{
	{
		name: "calories", unit: "kcal",
		patterns: labelPatterns("CALORIES", "ENERGY", "CAL"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Calories = &v },
	},
	{
		name: "totalFat", unit: "g",
		patterns: labelPatterns("TOTAL FAT", "TOT FAT", "LIPIDES"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.TotalFat = &v },
	},
	{
		name: "saturatedFat", unit: "g",
		patterns: labelPatterns("SATURATED FAT", "SAT FAT", "SAT. FAT", "OF WHICH SATURATES", "SATURATES", "SATURATED"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.SaturatedFat = &v },
	},
	{
		name: "transFat", unit: "g",
		patterns: labelPatterns("TRANS FAT", "TRANS"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.TransFat = &v },
	},
	{
		name: "cholesterol", unit: "mg",
		patterns: labelPatterns("CHOLESTEROL", "CHOLEST"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Cholesterol = &v },
	},
	{
		name: "sodium", unit: "mg",
		patterns: labelPatterns("SODIUM"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Sodium = &v },
	},
	{
		name: "salt", unit: "g",
		patterns: labelPatterns("SALT"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Salt = &v },
	},
	{
		name: "totalCarbohydrate", unit: "g",
		patterns: labelPatterns("TOTAL CARBOHYDRATE", "TOTAL CARBOHYDRATES", "TOTAL CARB", "CARBOHYDRATES", "CARBOHYDRATE", "CARBS"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.TotalCarbohydrate = &v },
	},
	{
		name: "dietaryFiber", unit: "g",
		patterns: labelPatterns("DIETARY FIBER", "DIETARY FIBRE", "FIBER", "FIBRE"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.DietaryFiber = &v },
	},
	{
		name: "addedSugars", unit: "g",
		patterns: append(
			[]*regexp.Regexp{regexp.MustCompile(`\bINCLUDES` + labelValueFragment + `\s*ADDED SUGARS`)},
			labelPatterns("ADDED SUGARS", "ADDED SUGAR")...,
		),
		assign: func(f *domain.NutritionFacts, v float64) { f.AddedSugars = &v },
	},
	{
		name: "totalSugars", unit: "g",
		patterns: labelPatterns("TOTAL SUGARS", "OF WHICH SUGARS", "SUGARS", "SUGAR"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.TotalSugars = &v },
	},
	{
		name: "protein", unit: "g",
		patterns: labelPatterns("PROTEIN", "PROTEINES"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Protein = &v },
	},
	{
		name: "vitaminD", unit: "mcg",
		patterns: labelPatterns("VITAMIN D", "VIT D", "VIT. D"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.VitaminD = &v },
	},
	{
		name: "calcium", unit: "mg",
		patterns: labelPatterns("CALCIUM"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Calcium = &v },
	},
	{
		name: "iron", unit: "mg",
		patterns: labelPatterns("IRON"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Iron = &v },
	},
	{
		name: "potassium", unit: "mg",
		patterns: labelPatterns("POTASSIUM"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.Potassium = &v },
	},
	{
		name: "vitaminA", unit: "mcg",
		patterns: labelPatterns("VITAMIN A", "VIT A", "VIT. A"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.VitaminA = &v },
	},
	{
		name: "vitaminC", unit: "mg",
		patterns: labelPatterns("VITAMIN C", "VIT C", "VIT. C"),
		assign:   func(f *domain.NutritionFacts, v float64) { f.VitaminC = &v },
	},
}

// servingSizePattern captures the serving size amount and unit spelling
// ("SERVING SIZE 28 G", "SERVING SIZE 2/3 CUP (55G)" falls back to the
// parenthesized gram amount via the second alternative ordering below).
var servingSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bSERVING SIZE\s*:?\s*([0-9OIS]*[0-9][0-9OIS]*(?:\.[0-9OIS]+)?)\s*(MG|KG|G|ML|L|OZ|0Z|CUP|CUPS|TBSP|TSP|PIECES?)\b`),
	regexp.MustCompile(`\bPORTION\s*:?\s*([0-9OIS]*[0-9][0-9OIS]*(?:\.[0-9OIS]+)?)\s*(MG|KG|G|ML|L|OZ|0Z)\b`),
}

// nutritionRanges are the per-field plausibility windows. Values outside
// the window are cleared to absent, never clamped.
var nutritionRanges = map[string][2]float64{
	"calories":          {0, 10000},
	"totalFat":          {0, 500},
	"saturatedFat":      {0, 500},
	"transFat":          {0, 100},
	"cholesterol":       {0, 5000},
	"sodium":            {0, 10000},
	"salt":              {0, 100},
	"totalCarbohydrate": {0, 1000},
	"dietaryFiber":      {0, 500},
	"totalSugars":       {0, 1000},
	"addedSugars":       {0, 1000},
	"protein":           {0, 500},
	"vitaminD":          {0, 1000},
	"calcium":           {0, 10000},
	"iron":              {0, 1000},
	"potassium":         {0, 10000},
	"vitaminA":          {0, 10000},
	"vitaminC":          {0, 10000},
	"servingSize":       {0, 5000},
}

// DeriveSodiumFromSalt converts a salt quantity in grams to sodium in
// milligrams: sodium makes up 40% of salt by mass.
func DeriveSodiumFromSalt(saltGrams float64) float64 {
	return saltGrams * 1000 * 0.4
}

// KilojoulesToKilocalories converts an EU energy value to kcal.
func KilojoulesToKilocalories(kj float64) float64 {
	return kj / 4.184
}
