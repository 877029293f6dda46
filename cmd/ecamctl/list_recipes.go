package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/barista-systems/ecamctl/internal/protocol"
	"github.com/barista-systems/ecamctl/internal/recipe"
)

var listRecipesFlags struct {
	beverage string
}

var listRecipesCmd = &cobra.Command{
	Use:   "list-recipes",
	Short: "Fetch and print merged beverage recipes",
	RunE:  runListRecipes,
}

func init() {
	listRecipesCmd.Flags().StringVar(&listRecipesFlags.beverage, "beverage", "", "Restrict the fetch to a single beverage (default: all known beverages)")
}

func runListRecipes(cmd *cobra.Command, args []string) error {
	var targets []protocol.BeverageID
	if listRecipesFlags.beverage != "" {
		b, err := parseBeverage(listRecipesFlags.beverage)
		if err != nil {
			return err
		}
		targets = []protocol.BeverageID{b}
	} else {
		for _, name := range sortedKeys(beverageNames) {
			targets = append(targets, beverageNames[name])
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	conn, err := connectBLE(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	tap := conn.PacketTap()
	defer tap.Close()

	recipes, err := recipe.Fetch(ctx, conn, tap, targets)
	if err != nil {
		return fmt.Errorf("ecamctl: fetch recipes: %w", err)
	}

	for _, b := range targets {
		rec, ok := recipes[b]
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%v: unavailable\n", b)
			continue
		}
		printRecipe(cmd, rec)
	}
	return nil
}

func printRecipe(cmd *cobra.Command, rec recipe.Recipe) {
	fmt.Fprintf(cmd.OutOrStdout(), "%v:\n", rec.Beverage)
	for ing, rng := range rec.Numeric {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: min=%d default=%d max=%d\n", ing, rng.Min, rng.Value, rng.Max)
	}
	if rec.HasTaste {
		fmt.Fprintf(cmd.OutOrStdout(), "  Taste: default=%v range=[%d,%d]\n", rec.TasteValue, rec.Taste.Min, rec.Taste.Max)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Temperature: %v\n", rec.Temperature)
	if rec.Accessory != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Accessory: %d\n", rec.Accessory)
	}
	if rec.Inversion.Enabled || rec.Inversion.Fixed {
		fmt.Fprintf(cmd.OutOrStdout(), "  Inversion: enabled=%v fixed=%v\n", rec.Inversion.Enabled, rec.Inversion.Fixed)
	}
	if rec.DoubleBrew.Enabled || rec.DoubleBrew.Fixed {
		fmt.Fprintf(cmd.OutOrStdout(), "  DoubleBrew: enabled=%v fixed=%v\n", rec.DoubleBrew.Enabled, rec.DoubleBrew.Fixed)
	}
}
