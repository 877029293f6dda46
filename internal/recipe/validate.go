package recipe

import (
	"fmt"

	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/protocol"
)

// ValidationMode selects how strictly a BrewRequest is checked against a
// Recipe before it is encoded into a BeverageDispensingMode request.
type ValidationMode int

const (
	// Strict requires every requested ingredient to exist in the recipe
	// and every numeric recipe ingredient to be explicitly supplied.
	Strict ValidationMode = iota
	// AllowDefaults fills missing numeric ingredients from the recipe's
	// default value and a missing Taste from the recipe default. A missing
	// Temperature is not filled and is left out of the request.
	AllowDefaults
	// Force skips all checks and passes the request through unchanged.
	// Logged at warn level since it can send the device out-of-range
	// values.
	Force
)

// BrewRequest is a caller's desired beverage and optional ingredient
// overrides.
type BrewRequest struct {
	Beverage    protocol.BeverageID
	Coffee      *uint16
	Milk        *uint16
	HotWater    *uint16
	Taste       *protocol.Taste
	Temperature *protocol.Temperature
}

// Validate checks req against recipe under mode and returns the ingredient
// list ready to embed in a BeverageDispensingModeRequest, or a
// *ValidationError describing every problem found.
func Validate(recipe Recipe, req BrewRequest, mode ValidationMode) ([]protocol.RecipeInfo, error) {
	if mode == Force {
		logging.L().Warn("recipe_validation_forced", "beverage", req.Beverage)
		return forceIngredients(req), nil
	}

	verr := &ValidationError{}
	var out []protocol.RecipeInfo

	numericReq := map[protocol.Ingredient]*uint16{
		protocol.IngredientCoffee:   req.Coffee,
		protocol.IngredientMilk:     req.Milk,
		protocol.IngredientHotWater: req.HotWater,
	}

	for ing, rng := range recipe.Numeric {
		supplied := numericReq[ing]
		if supplied == nil {
			if mode == AllowDefaults {
				out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(ing), Value: rng.Value})
				continue
			}
			verr.Missing = append(verr.Missing, ing.String())
			continue
		}
		if !rng.Contains(*supplied) {
			verr.RangeErrors = append(verr.RangeErrors, fmt.Sprintf("%s: value %d out of [%d,%d]", ing, *supplied, rng.Min, rng.Max))
			continue
		}
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(ing), Value: *supplied})
	}

	for ing, supplied := range numericReq {
		if supplied == nil {
			continue
		}
		if _, inRecipe := recipe.Numeric[ing]; !inRecipe {
			verr.Extra = append(verr.Extra, ing.String())
		}
	}

	if req.Taste != nil {
		if !recipe.HasTaste {
			verr.Extra = append(verr.Extra, protocol.IngredientTaste.String())
		} else if !recipe.Taste.Contains(uint16(*req.Taste)) {
			verr.RangeErrors = append(verr.RangeErrors, fmt.Sprintf("Taste: value %d out of [%d,%d]", *req.Taste, recipe.Taste.Min, recipe.Taste.Max))
		} else {
			out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientTaste), Value: uint16(*req.Taste)})
		}
	} else if recipe.HasTaste && mode == AllowDefaults {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientTaste), Value: uint16(recipe.TasteValue)})
	} else if recipe.HasTaste && mode == Strict {
		verr.Missing = append(verr.Missing, protocol.IngredientTaste.String())
	}

	if req.Temperature != nil {
		// Temp carries no range on the wire; any known value passes.
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientTemp), Value: uint16(*req.Temperature)})
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return out, nil
}

// forceIngredients builds an ingredient list directly from whatever the
// caller supplied, with no recipe cross-check at all.
func forceIngredients(req BrewRequest) []protocol.RecipeInfo {
	var out []protocol.RecipeInfo
	if req.Coffee != nil {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientCoffee), Value: *req.Coffee})
	}
	if req.Milk != nil {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientMilk), Value: *req.Milk})
	}
	if req.HotWater != nil {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientHotWater), Value: *req.HotWater})
	}
	if req.Taste != nil {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientTaste), Value: uint16(*req.Taste)})
	}
	if req.Temperature != nil {
		out = append(out, protocol.RecipeInfo{Ingredient: protocol.Known(protocol.IngredientTemp), Value: uint16(*req.Temperature)})
	}
	return out
}

// BuildDispenseRequest assembles the final BeverageDispensingMode request
// from a validated ingredient list.
func BuildDispenseRequest(beverage protocol.BeverageID, ingredients []protocol.RecipeInfo) protocol.BeverageDispensingModeRequest {
	return protocol.BeverageDispensingModeRequest{
		Beverage:    protocol.Known(beverage),
		Trigger:     protocol.Known(protocol.OperationTriggerStart),
		Ingredients: ingredients,
		TasteMode:   protocol.Known(protocol.BeverageTasteTypePrepare),
	}
}
