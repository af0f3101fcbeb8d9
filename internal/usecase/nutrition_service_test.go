package usecase

import (
	"errors"
	"math"
	"testing"

	"github.com/pantrylens/backend/internal/domain"
)

func newTestNutritionService() *NutritionService {
	return NewNutritionService(NutritionServiceConfig{})
}

func assertField(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestParseLabel_Fields(t *testing.T) {
	svc := newTestNutritionService()

	facts, err := svc.ParseLabel(`Nutrition Facts
		Serving Size 28 g
		Calories 250
		Total Fat 10g
		Saturated Fat 3g
		Trans Fat 0g
		Cholesterol 30mg
		Sodium 160mg
		Total Carbohydrate 31g
		Dietary Fiber 2g
		Total Sugars 12g
		Includes 10g Added Sugars
		Protein 5g
		Vitamin D 2mcg
		Calcium 260mg
		Iron 8mg
		Potassium 240mg`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertField(t, "calories", facts.Calories, 250)
	assertField(t, "totalFat", facts.TotalFat, 10)
	assertField(t, "saturatedFat", facts.SaturatedFat, 3)
	assertField(t, "transFat", facts.TransFat, 0)
	assertField(t, "cholesterol", facts.Cholesterol, 30)
	assertField(t, "sodium", facts.Sodium, 160)
	assertField(t, "totalCarbohydrate", facts.TotalCarbohydrate, 31)
	assertField(t, "dietaryFiber", facts.DietaryFiber, 2)
	assertField(t, "totalSugars", facts.TotalSugars, 12)
	assertField(t, "addedSugars", facts.AddedSugars, 10)
	assertField(t, "protein", facts.Protein, 5)
	assertField(t, "vitaminD", facts.VitaminD, 2)
	assertField(t, "calcium", facts.Calcium, 260)
	assertField(t, "iron", facts.Iron, 8)
	assertField(t, "potassium", facts.Potassium, 240)

	assertField(t, "servingSize", facts.ServingSize, 28)
	if facts.ServingSizeUnit != "g" {
		t.Errorf("servingSizeUnit = %q, want %q", facts.ServingSizeUnit, "g")
	}

	if facts.Format != domain.LabelFormatUS {
		t.Errorf("format = %s, want US", facts.Format)
	}
	if facts.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5 for a rich panel", facts.Confidence)
	}
}

func TestParseLabel_OCRConfusedValue(t *testing.T) {
	svc := newTestNutritionService()

	facts, err := svc.ParseLabel("Calories 2S0 Total Fat I0g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertField(t, "calories", facts.Calories, 250)
	assertField(t, "totalFat", facts.TotalFat, 10)
}

func TestParseLabel_LabelTrailingLetterIsNotAValue(t *testing.T) {
	svc := newTestNutritionService()

	// "CALS" must not match the CAL variant with its own trailing S
	// captured as the value (and fixed up to 5)
	facts, err := svc.ParseLabel("CALS 250")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facts.Calories != nil {
		t.Errorf("calories = %v, want nil", *facts.Calories)
	}
	if !facts.IsEmpty() {
		t.Errorf("facts not empty: %+v", facts)
	}
}

func TestParseLabel_EnergyKilojoules(t *testing.T) {
	svc := newTestNutritionService()

	facts, err := svc.ParseLabel("Energy 1046 kJ per 100g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facts.Calories == nil {
		t.Fatal("calories = nil, want kJ-derived value")
	}
	if math.Abs(*facts.Calories-250) > 0.5 {
		t.Errorf("calories = %v, want ~250 from 1046 kJ", *facts.Calories)
	}
}

func TestParseLabel_EmptyText(t *testing.T) {
	svc := newTestNutritionService()
	if _, err := svc.ParseLabel("   "); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestParseLabel_NoFields(t *testing.T) {
	svc := newTestNutritionService()
	facts, err := svc.ParseLabel("INGREDIENTS: WATER, BARLEY MALT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !facts.IsEmpty() {
		t.Errorf("facts not empty: %+v", facts)
	}
	if facts.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", facts.Confidence)
	}
}

func TestValidate_PlausibilityWindows(t *testing.T) {
	svc := newTestNutritionService()

	t.Run("out-of-range values are cleared, not clamped", func(t *testing.T) {
		facts := &domain.NutritionFacts{
			Calories: domain.Float(99999),
			Sodium:   domain.Float(250),
			Protein:  domain.Float(-3),
		}
		svc.Validate(facts)

		if facts.Calories != nil {
			t.Errorf("calories = %v, want cleared", *facts.Calories)
		}
		if facts.Protein != nil {
			t.Errorf("protein = %v, want cleared", *facts.Protein)
		}
		assertField(t, "sodium", facts.Sodium, 250)
	})

	t.Run("boundary values survive", func(t *testing.T) {
		facts := &domain.NutritionFacts{
			Calories:  domain.Float(10000),
			Potassium: domain.Float(10000),
		}
		svc.Validate(facts)
		assertField(t, "calories", facts.Calories, 10000)
		assertField(t, "potassium", facts.Potassium, 10000)
	})
}

func TestValidate_SaltToSodiumDerivation(t *testing.T) {
	svc := newTestNutritionService()

	t.Run("derives sodium when absent", func(t *testing.T) {
		facts := &domain.NutritionFacts{Salt: domain.Float(1.0)}
		svc.Validate(facts)
		assertField(t, "sodium", facts.Sodium, 400)
	})

	t.Run("explicit sodium wins over derivation", func(t *testing.T) {
		facts := &domain.NutritionFacts{
			Salt:   domain.Float(1.0),
			Sodium: domain.Float(160),
		}
		svc.Validate(facts)
		assertField(t, "sodium", facts.Sodium, 160)
	})

	t.Run("implausible derived sodium is not assigned", func(t *testing.T) {
		// 50 g of salt sits inside salt's own window but derives to
		// 20000 mg of sodium, which the sodium window rejects
		facts := &domain.NutritionFacts{Salt: domain.Float(50)}
		svc.Validate(facts)
		if facts.Sodium != nil {
			t.Errorf("sodium = %v, want nil for out-of-window derivation", *facts.Sodium)
		}
		assertField(t, "salt", facts.Salt, 50)
	})

	t.Run("end to end from implausible salt text", func(t *testing.T) {
		facts, err := svc.ParseLabel("Salt 50g per 100g")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.Validate(facts)
		if facts.Sodium != nil {
			t.Errorf("sodium = %v, want nil", *facts.Sodium)
		}
	})

	t.Run("end to end from EU panel text", func(t *testing.T) {
		facts, err := svc.ParseLabel("Energy 1046 kJ Salt 1.0g per 100g")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.Validate(facts)
		assertField(t, "sodium", facts.Sodium, 400)
	})
}

func TestDeriveSodiumFromSalt(t *testing.T) {
	if got := DeriveSodiumFromSalt(1.0); got != 400 {
		t.Errorf("DeriveSodiumFromSalt(1.0) = %v, want 400", got)
	}
	if got := DeriveSodiumFromSalt(2.5); got != 1000 {
		t.Errorf("DeriveSodiumFromSalt(2.5) = %v, want 1000", got)
	}
}

func TestDetectLabelFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.LabelFormat
	}{
		{
			"US panel",
			"NUTRITION FACTS SERVING SIZE 28 G % DAILY VALUE",
			domain.LabelFormatUS,
		},
		{
			"EU panel",
			"ENERGY 1046 KJ PER 100G OF WHICH SATURATES 1.5G",
			domain.LabelFormatEU,
		},
		{
			"Canadian bilingual beats everything",
			"NUTRITION FACTS VALEUR NUTRITIVE SERVING SIZE 28 G",
			domain.LabelFormatCanadian,
		},
		{
			"UK overrides US and EU counts",
			"ENERGY 1046 KJ REFERENCE INTAKE OF AN AVERAGE ADULT",
			domain.LabelFormatUK,
		},
		{
			"zero-zero tie defaults to US",
			"SOME UNRELATED TEXT",
			domain.LabelFormatUS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLabelFormat(NormalizeLabelText(tt.text)); got != tt.want {
				t.Errorf("DetectLabelFormat = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScoreLabelFormat(t *testing.T) {
	signal := ScoreLabelFormat("NUTRITION FACTS SERVING SIZE 100 KJ")
	if signal.US != 2 {
		t.Errorf("US count = %d, want 2", signal.US)
	}
	if signal.EU != 1 {
		t.Errorf("EU count = %d, want 1", signal.EU)
	}
	if signal.Canadian != 0 || signal.UK != 0 {
		t.Errorf("unexpected CA/UK counts: %+v", signal)
	}
}

func TestCanonicalUnit(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"grams", "g", true},
		{"GRAMS", "g", true},
		{"tablespoons", "tbsp", true},
		{"gallons", "gal", true},
		{"0z", "oz", true}, // OCR-corrupted ounces
		{"widget", "", false},
	}

	for _, tt := range tests {
		got, ok := CanonicalUnit(tt.token)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CanonicalUnit(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}
