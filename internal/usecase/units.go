package usecase

import "strings"

// unitSynonyms maps printed and spoken unit spellings to a canonical unit.
// OCR-corrupted spellings produced by FixOCRDigits ("0Z" for "OZ") are
// carried alongside the clean ones.
var unitSynonyms = map[string]string{
	// volume
	"gallon": "gal", "gallons": "gal", "gal": "gal",
	"quart": "qt", "quarts": "qt", "qt": "qt",
	"pint": "pt", "pints": "pt", "pt": "pt",
	"liter": "L", "liters": "L", "litre": "L", "litres": "L",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml", "m1": "ml",
	"cup": "cup", "cups": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp",
	"ounce": "oz", "ounces": "oz", "oz": "oz", "0z": "oz",
	"fl oz": "fl oz",

	// weight
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg", "kilo": "kg", "kilos": "kg",
	"gram": "g", "grams": "g", "g": "g",
	"milligram": "mg", "milligrams": "mg", "mg": "mg",
	"microgram": "mcg", "micrograms": "mcg", "mcg": "mcg",

	// packaging counts
	"box": "box", "boxes": "box",
	"bag": "bag", "bags": "bag",
	"bottle": "bottle", "bottles": "bottle",
	"can": "can", "cans": "can",
	"carton": "carton", "cartons": "carton",
	"jar": "jar", "jars": "jar",
	"loaf": "loaf", "loaves": "loaf",
	"pack": "pack", "packs": "pack",
	"bunch": "bunch", "bunches": "bunch",
	"head": "head", "heads": "head",
	"stick": "stick", "sticks": "stick",
	"piece": "piece", "pieces": "piece",
}

// CanonicalUnit resolves a unit spelling ("grams", "GAL", "0Z") to its
// canonical form. The second return is false when the token is not a
// recognized unit.
func CanonicalUnit(token string) (string, bool) {
	unit, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(token))]
	return unit, ok
}
