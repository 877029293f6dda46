package recipe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

func TestMerge_CoffeeRange(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientCoffee), Value: 100},
	}
	ranges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientCoffee), Min: 0, Value: 100, Max: 250},
	}

	got, err := merge(protocol.BeverageCoffee, quantities, ranges)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := Range{Min: 0, Value: 100, Max: 250}
	if diff := cmp.Diff(want, got.Numeric[protocol.IngredientCoffee]); diff != "" {
		t.Fatalf("Numeric[Coffee] mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_CortadoZeroRangeIsInvalid(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientMilk), Value: 0},
	}
	ranges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientMilk), Min: 0, Value: 0, Max: 0},
	}

	_, err := merge(protocol.BeverageCortado, quantities, ranges)
	if !errors.Is(err, ErrIngredientInvalid) {
		t.Fatalf("err = %v, want ErrIngredientInvalid", err)
	}
}

func TestMerge_ZeroQuantityWithPositiveMinIsInvalid(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientCoffee), Value: 0},
	}
	ranges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientCoffee), Min: 20, Value: 0, Max: 250},
	}

	_, err := merge(protocol.BeverageCoffee, quantities, ranges)
	if !errors.Is(err, ErrIngredientInvalid) {
		t.Fatalf("err = %v, want ErrIngredientInvalid", err)
	}
}

func TestMerge_AccessorioMapping(t *testing.T) {
	cases := []struct {
		value uint16
		want  AccessoryKind
	}{
		{1, AccessoryWater},
		{2, AccessoryMilk},
		{0, AccessoryNone},
		{9, AccessoryNone},
	}
	for _, tc := range cases {
		quantities := []protocol.RecipeInfo{
			{Ingredient: protocol.Known(protocol.IngredientAccessorio), Value: tc.value},
		}
		got, err := merge(protocol.BeverageHotWater, quantities, nil)
		if err != nil {
			t.Fatalf("merge(value=%d): %v", tc.value, err)
		}
		if got.Accessory != tc.want {
			t.Fatalf("Accessory(value=%d) = %v, want %v", tc.value, got.Accessory, tc.want)
		}
	}
}

func TestMerge_TasteRequiresZeroToFiveRange(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientTaste), Value: 2},
	}
	ranges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientTaste), Min: 0, Value: 2, Max: 5},
	}
	got, err := merge(protocol.BeverageCoffee, quantities, ranges)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !got.HasTaste || got.TasteValue != protocol.TasteNormal {
		t.Fatalf("Taste = %+v, want HasTaste with TasteNormal", got)
	}

	badRanges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientTaste), Min: 1, Value: 2, Max: 5},
	}
	if _, err := merge(protocol.BeverageCoffee, quantities, badRanges); !errors.Is(err, ErrIngredientInvalid) {
		t.Fatalf("err = %v, want ErrIngredientInvalid for non-zero Taste min", err)
	}
}

func TestMerge_StructuralSentinelsIgnored(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientVisible), Value: 1},
		{Ingredient: protocol.Known(protocol.IngredientIndexLength), Value: 3},
		{Ingredient: protocol.Known(protocol.IngredientProgrammable), Value: 1},
	}
	got, err := merge(protocol.BeverageCoffee, quantities, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(got.Numeric) != 0 || got.HasTaste || got.Accessory != AccessoryNone {
		t.Fatalf("expected a bare Recipe for sentinel-only input, got %+v", got)
	}
}

func TestMerge_InversionAndDueXPer(t *testing.T) {
	quantities := []protocol.RecipeInfo{
		{Ingredient: protocol.Known(protocol.IngredientInversion), Value: 1},
		{Ingredient: protocol.Known(protocol.IngredientDueXPer), Value: 0},
	}
	ranges := []protocol.RecipeMinMax{
		{Ingredient: protocol.Known(protocol.IngredientInversion), Min: 0, Value: 1, Max: 1},
		{Ingredient: protocol.Known(protocol.IngredientDueXPer), Min: 0, Value: 0, Max: 1},
	}
	got, err := merge(protocol.BeverageCoffee2x, quantities, ranges)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.Inversion != (ToggleSetting{Enabled: true, Fixed: false}) {
		t.Fatalf("Inversion = %+v, want enabled+not-fixed", got.Inversion)
	}
	if got.DoubleBrew != (ToggleSetting{Enabled: false, Fixed: false}) {
		t.Fatalf("DoubleBrew = %+v, want disabled+not-fixed", got.DoubleBrew)
	}
}
