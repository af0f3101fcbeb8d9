package domain

// ShoppingItem is a single item parsed out of a spoken or typed shopping
// utterance: a name with an optional quantity and canonical unit.
type ShoppingItem struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"` // canonical form, e.g. "gal"
	Confidence   float64 `json:"confidence"`
	OriginalText string  `json:"originalText"`
}
