package recipe

import (
	"testing"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

func coffeeOnlyRecipe() Recipe {
	return Recipe{
		Beverage: protocol.BeverageCoffee,
		Numeric: map[protocol.Ingredient]Range{
			protocol.IngredientCoffee: {Min: 0, Value: 100, Max: 250},
		},
	}
}

func TestValidate_CoffeeWithinRangeOk(t *testing.T) {
	v := uint16(100)
	got, err := Validate(coffeeOnlyRecipe(), BrewRequest{Beverage: protocol.BeverageCoffee, Coffee: &v}, Strict)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(got) != 1 || got[0].Value != 100 {
		t.Fatalf("ingredients = %+v, want one Coffee=100 entry", got)
	}
}

func TestValidate_CoffeeOutOfRangeFails(t *testing.T) {
	v := uint16(1000)
	_, err := Validate(coffeeOnlyRecipe(), BrewRequest{Beverage: protocol.BeverageCoffee, Coffee: &v}, Strict)
	if err == nil {
		t.Fatal("expected a range error")
	}
	verr, ok := err.(*ValidationError)
	if !ok || len(verr.RangeErrors) != 1 {
		t.Fatalf("err = %+v, want one RangeErrors entry", err)
	}
}

func TestValidate_MilkExtraCoffeeMissing(t *testing.T) {
	v := uint16(100)
	_, err := Validate(coffeeOnlyRecipe(), BrewRequest{Beverage: protocol.BeverageCoffee, Milk: &v}, Strict)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Extra) != 1 || verr.Extra[0] != protocol.IngredientMilk.String() {
		t.Fatalf("Extra = %v, want [Milk]", verr.Extra)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != protocol.IngredientCoffee.String() {
		t.Fatalf("Missing = %v, want [Coffee]", verr.Missing)
	}
}

func TestValidate_AllowDefaultsFillsMissingNumeric(t *testing.T) {
	got, err := Validate(coffeeOnlyRecipe(), BrewRequest{Beverage: protocol.BeverageCoffee}, AllowDefaults)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(got) != 1 || got[0].Value != 100 {
		t.Fatalf("ingredients = %+v, want default Coffee=100", got)
	}
}

func TestValidate_ForceSkipsChecks(t *testing.T) {
	v := uint16(9999)
	got, err := Validate(Recipe{}, BrewRequest{Beverage: protocol.BeverageCoffee, Coffee: &v}, Force)
	if err != nil {
		t.Fatalf("Validate(Force): %v", err)
	}
	if len(got) != 1 || got[0].Value != 9999 {
		t.Fatalf("ingredients = %+v, want unchecked Coffee=9999", got)
	}
}
