package domain

// LabelFormat identifies the regional labeling standard a nutrition panel
// was printed under, inferred from indicator phrases in the text.
type LabelFormat string

const (
	LabelFormatUS       LabelFormat = "US"
	LabelFormatEU       LabelFormat = "EU"
	LabelFormatUK       LabelFormat = "UK"
	LabelFormatCanadian LabelFormat = "CA"
)

// NutritionFacts holds the fields recognized on a nutrition panel.
// Pointer fields distinguish "not found" from a legitimate zero value;
// validation clears implausible values back to nil rather than clamping.
type NutritionFacts struct {
	Calories          *float64 `json:"calories,omitempty"`
	TotalFat          *float64 `json:"totalFat,omitempty"`          // g
	SaturatedFat      *float64 `json:"saturatedFat,omitempty"`      // g
	TransFat          *float64 `json:"transFat,omitempty"`          // g
	Cholesterol       *float64 `json:"cholesterol,omitempty"`       // mg
	Sodium            *float64 `json:"sodium,omitempty"`            // mg
	TotalCarbohydrate *float64 `json:"totalCarbohydrate,omitempty"` // g
	DietaryFiber      *float64 `json:"dietaryFiber,omitempty"`      // g
	TotalSugars       *float64 `json:"totalSugars,omitempty"`       // g
	AddedSugars       *float64 `json:"addedSugars,omitempty"`       // g
	Protein           *float64 `json:"protein,omitempty"`           // g
	VitaminD          *float64 `json:"vitaminD,omitempty"`          // mcg
	Calcium           *float64 `json:"calcium,omitempty"`           // mg
	Iron              *float64 `json:"iron,omitempty"`              // mg
	Potassium         *float64 `json:"potassium,omitempty"`         // mg
	VitaminA          *float64 `json:"vitaminA,omitempty"`          // mcg
	VitaminC          *float64 `json:"vitaminC,omitempty"`          // mg

	// Salt is captured only so sodium can be derived when the panel (EU
	// style) lists salt instead of sodium.
	Salt *float64 `json:"salt,omitempty"` // g

	ServingSize     *float64 `json:"servingSize,omitempty"`
	ServingSizeUnit string   `json:"servingSizeUnit,omitempty"`

	Format     LabelFormat `json:"format,omitempty"`
	Confidence float64     `json:"confidence"`
}

// IsEmpty reports whether no field was extracted at all.
func (n *NutritionFacts) IsEmpty() bool {
	return n.Calories == nil && n.TotalFat == nil && n.SaturatedFat == nil &&
		n.TransFat == nil && n.Cholesterol == nil && n.Sodium == nil &&
		n.TotalCarbohydrate == nil && n.DietaryFiber == nil &&
		n.TotalSugars == nil && n.AddedSugars == nil && n.Protein == nil &&
		n.VitaminD == nil && n.Calcium == nil && n.Iron == nil &&
		n.Potassium == nil && n.VitaminA == nil && n.VitaminC == nil &&
		n.Salt == nil && n.ServingSize == nil
}

// Float returns a pointer to v, for building NutritionFacts literals.
func Float(v float64) *float64 { return &v }
