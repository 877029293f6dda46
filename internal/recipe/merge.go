package recipe

import (
	"fmt"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

type ingredientPair struct {
	quantity *protocol.RecipeInfo
	minmax   *protocol.RecipeMinMax
}

// merge combines a beverage's default-quantity and min/max-range records
// into one Recipe.
func merge(beverage protocol.BeverageID, quantities []protocol.RecipeInfo, ranges []protocol.RecipeMinMax) (Recipe, error) {
	pairs := make(map[protocol.Ingredient]*ingredientPair)
	pairFor := func(ing protocol.Ingredient) *ingredientPair {
		p, ok := pairs[ing]
		if !ok {
			p = &ingredientPair{}
			pairs[ing] = p
		}
		return p
	}

	for i := range quantities {
		q := quantities[i]
		ing, ok := q.Ingredient.Value()
		if !ok {
			continue
		}
		pairFor(ing).quantity = &quantities[i]
	}
	for i := range ranges {
		r := ranges[i]
		ing, ok := r.Ingredient.Value()
		if !ok {
			continue
		}
		pairFor(ing).minmax = &r
	}

	recipe := Recipe{
		Beverage:    beverage,
		Numeric:     make(map[protocol.Ingredient]Range),
		Temperature: protocol.TemperatureLow,
		Accessory:   AccessoryNone,
	}

	for ing, pair := range pairs {
		switch ing {
		case protocol.IngredientVisible, protocol.IngredientIndexLength, protocol.IngredientProgrammable:
			continue // structural sentinels, not user-facing ingredients

		case protocol.IngredientAccessorio:
			if pair.quantity == nil {
				continue
			}
			switch pair.quantity.Value {
			case 1:
				recipe.Accessory = AccessoryWater
			case 2:
				recipe.Accessory = AccessoryMilk
			default:
				recipe.Accessory = AccessoryNone
			}

		case protocol.IngredientCoffee, protocol.IngredientMilk, protocol.IngredientHotWater:
			if pair.quantity == nil || pair.minmax == nil {
				return Recipe{}, fmt.Errorf("%w: ingredient %v missing quantity or range record", ErrNoDefaultQuantity, ing)
			}
			q, r := pair.quantity, pair.minmax
			if q.Value == 0 && r.Min > 0 {
				return Recipe{}, fmt.Errorf("%w: ingredient %v quantity=0 but min=%d", ErrIngredientInvalid, ing, r.Min)
			}
			if r.Min == 0 && r.Value == 0 && r.Max == 0 {
				return Recipe{}, fmt.Errorf("%w: ingredient %v has an all-zero range", ErrIngredientInvalid, ing)
			}
			recipe.Numeric[ing] = Range{Min: r.Min, Value: q.Value, Max: r.Max}

		case protocol.IngredientTaste:
			if pair.minmax == nil || pair.minmax.Min != 0 || pair.minmax.Max != 5 {
				return Recipe{}, fmt.Errorf("%w: Taste range must be (0,_,5)", ErrIngredientInvalid)
			}
			recipe.HasTaste = true
			if pair.quantity != nil {
				recipe.TasteValue = protocol.Taste(pair.quantity.Value)
			}
			recipe.Taste = Range{Min: pair.minmax.Min, Value: pair.minmax.Value, Max: pair.minmax.Max}

		case protocol.IngredientTemp:
			// Placeholder: the wire never encodes a real temperature
			// choice for this field.
			recipe.Temperature = protocol.TemperatureLow

		case protocol.IngredientInversion:
			recipe.Inversion = toggleFrom(pair)

		case protocol.IngredientDueXPer:
			recipe.DoubleBrew = toggleFrom(pair)
		}
	}

	return recipe, nil
}

func toggleFrom(pair *ingredientPair) ToggleSetting {
	var t ToggleSetting
	if pair.quantity != nil {
		t.Enabled = pair.quantity.Value == 1
	}
	if pair.minmax != nil {
		t.Fixed = pair.minmax.Min == pair.minmax.Max
	}
	return t
}
