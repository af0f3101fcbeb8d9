package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/pantrylens/backend/internal/domain"
)

// quantityWords maps spoken quantity words to values. Only a single leading
// token is consumed; compound phrases beyond the special-cased "and a half"
// and "one half" sequences are not composed, so "a dozen eggs" reads as
// quantity 1 with "dozen" falling into the item name.
var quantityWords = map[string]float64{
	"a": 1, "an": 1, "one": 1,
	"two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"dozen":   12,
	"half":    0.5,
	"couple":  2,
	"few":     3,
	"several": 4,
	"some":    2,
}

// itemSeparators split an utterance into independent items
var itemSeparators = []string{"and", "also", "plus", "with", "then"}

// fillerPhrases are leading command phrases stripped from the start of the
// whole utterance before splitting. Longer phrases come first so "please
// get" is not half-stripped by "get".
var fillerPhrases = []string{
	"please get me", "please get", "please add", "can you get",
	"get me", "pick up", "i need", "we need", "i want",
	"add", "buy", "get", "grab", "put",
}

// ShoppingServiceConfig holds configuration for the shopping utterance parser
type ShoppingServiceConfig struct {
	EnableDebugLogging bool
}

// ShoppingService parses spoken or typed shopping utterances into items
// with quantity and canonical unit.
type ShoppingService struct {
	enableDebugLogging bool
}

// NewShoppingService creates a new shopping utterance parser
func NewShoppingService(config ShoppingServiceConfig) *ShoppingService {
	return &ShoppingService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ParseUtterance splits the utterance into items and parses each into a
// name/quantity/unit candidate.
func (s *ShoppingService) ParseUtterance(text string) ([]domain.ShoppingItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeUtterance(text)
	normalized = stripLeadingFiller(normalized)

	var items []domain.ShoppingItem
	for _, part := range splitItems(normalized) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if item, ok := s.parseItem(part); ok {
			items = append(items, item)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[SHOPPING] %q -> %d items", text, len(items))
	}
	return items, nil
}

// parseItem parses a single item phrase: optional leading quantity,
// optional unit (with a following "of" swallowed), remaining tokens as the
// item name.
func (s *ShoppingService) parseItem(part string) (domain.ShoppingItem, bool) {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return domain.ShoppingItem{}, false
	}

	item := domain.ShoppingItem{
		Quantity:     1,
		OriginalText: part,
	}
	confidence := 0.5

	// Quantity is consumed only at the very first token position
	if qty, consumed, ok := parseQuantity(tokens); ok {
		item.Quantity = qty
		tokens = tokens[consumed:]
		confidence += 0.2
	}

	// A unit token immediately after the quantity; a following "of" is
	// swallowed ("two gallons of milk")
	if len(tokens) > 0 {
		if unit, ok := CanonicalUnit(tokens[0]); ok {
			item.Unit = unit
			tokens = tokens[1:]
			confidence += 0.2
			if len(tokens) > 0 && tokens[0] == "of" {
				tokens = tokens[1:]
			}
		}
	}

	if len(tokens) == 0 {
		return domain.ShoppingItem{}, false
	}

	item.Name = titleCase(strings.Join(tokens, " "))
	confidence += 0.1
	item.Confidence = domain.ClampConfidence(confidence)
	return item, true
}

// parseQuantity reads a quantity from the first token(s). Returns the
// value, how many tokens were consumed and whether a quantity was found.
func parseQuantity(tokens []string) (float64, int, bool) {
	first := tokens[0]

	var qty float64
	found := false
	if v, err := strconv.ParseFloat(first, 64); err == nil && v > 0 {
		qty = v
		found = true
	} else if v, ok := quantityWords[first]; ok {
		qty = v
		found = true
	}
	if !found {
		return 0, 0, false
	}

	// Special-cased sequences only; general compound quantities are not
	// composed ("a dozen" stays quantity 1 with "dozen" in the name).
	consumed := 1
	rest := tokens[1:]
	if len(rest) >= 3 && rest[0] == "and" && rest[1] == "a" && rest[2] == "half" {
		qty += 0.5
		consumed += 3
	} else if first == "one" && len(rest) >= 1 && rest[0] == "half" {
		qty = 0.5
		consumed++
	}

	return qty, consumed, true
}

// stripLeadingFiller removes one leading filler phrase from the utterance
func stripLeadingFiller(normalized string) string {
	for _, filler := range fillerPhrases {
		if normalized == filler {
			return ""
		}
		if strings.HasPrefix(normalized, filler+" ") {
			return strings.TrimSpace(normalized[len(filler):])
		}
	}
	return normalized
}

// splitItems splits on the separator vocabulary: commas first, then the
// separator words. Stacked separators ("and also butter") leave a bare
// separator word at the head of a part; it is stripped afterwards.
func splitItems(normalized string) []string {
	parts := strings.Split(normalized, ",")
	for _, word := range itemSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, splitOnWord(strings.TrimSpace(p), word)...)
		}
		parts = next
	}
	for i, p := range parts {
		parts[i] = stripLeadingSeparator(strings.TrimSpace(p))
	}
	return parts
}

func stripLeadingSeparator(part string) string {
	for _, word := range itemSeparators {
		if strings.HasPrefix(part, word+" ") {
			return strings.TrimSpace(part[len(word):])
		}
	}
	return part
}

// splitOnWord splits on a separator word surrounded by spaces. "and" is not
// a separator when it continues a quantity ("two and a half pounds").
func splitOnWord(s, word string) []string {
	sep := " " + word + " "
	var parts []string
	start, search := 0, 0
	for {
		idx := strings.Index(s[search:], sep)
		if idx < 0 {
			break
		}
		idx += search
		rest := s[idx+len(sep):]
		if word == "and" && (strings.HasPrefix(rest, "a half") || strings.HasPrefix(rest, "half")) {
			search = idx + len(sep)
			continue
		}
		parts = append(parts, s[start:idx])
		start = idx + len(sep)
		search = start
	}
	return append(parts, s[start:])
}

// titleCase capitalizes each word of an item name ("whole milk" -> "Whole Milk")
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
