package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/barista-systems/ecamctl/internal/protocol"
	"github.com/barista-systems/ecamctl/internal/recipe"
)

var brewFlags struct {
	beverage      string
	coffee        int
	milk          int
	hotWater      int
	taste         string
	temperature   string
	turnOn        bool
	allowDefaults bool
	force         bool
}

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Dispense a beverage with validated parameters",
	RunE:  runBrew,
}

func init() {
	f := brewCmd.Flags()
	f.StringVar(&brewFlags.beverage, "beverage", "", "Beverage to brew (required)")
	f.IntVar(&brewFlags.coffee, "coffee", -1, "Coffee quantity override")
	f.IntVar(&brewFlags.milk, "milk", -1, "Milk quantity override")
	f.IntVar(&brewFlags.hotWater, "hotwater", -1, "Hot water quantity override")
	f.StringVar(&brewFlags.taste, "taste", "", "Taste override")
	f.StringVar(&brewFlags.temperature, "temperature", "", "Temperature override")
	f.BoolVar(&brewFlags.turnOn, "turn-on", false, "Power the machine on first if it is in standby")
	f.BoolVar(&brewFlags.allowDefaults, "allow-defaults", false, "Fill unsupplied ingredients from the recipe's defaults instead of requiring them")
	f.BoolVar(&brewFlags.force, "force", false, "Skip all validation and send exactly what was supplied (dangerous)")
	_ = brewCmd.MarkFlagRequired("beverage")
}

func runBrew(cmd *cobra.Command, args []string) error {
	beverage, err := parseBeverage(brewFlags.beverage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	conn, err := connectBLE(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Trace {
		go traceTap(ctx, conn, cmd)
	}

	if brewFlags.turnOn {
		if err := recipe.PowerOn(ctx, conn, false); err != nil {
			return fmt.Errorf("ecamctl: power on: %w", err)
		}
	}

	tap := conn.PacketTap()
	defer tap.Close()

	recipes, err := recipe.Fetch(ctx, conn, tap, []protocol.BeverageID{beverage})
	if err != nil {
		return fmt.Errorf("ecamctl: fetch recipe: %w", err)
	}
	rec, ok := recipes[beverage]
	if !ok {
		return fmt.Errorf("ecamctl: no recipe available for %s (machine may not support it or reported an invalid range)", brewFlags.beverage)
	}

	req, err := buildBrewRequest(beverage)
	if err != nil {
		return err
	}

	mode := recipe.Strict
	switch {
	case brewFlags.force:
		mode = recipe.Force
	case brewFlags.allowDefaults:
		mode = recipe.AllowDefaults
	}

	ingredients, err := recipe.Validate(rec, req, mode)
	if err != nil {
		return fmt.Errorf("ecamctl: %w", err)
	}

	dispense := recipe.BuildDispenseRequest(beverage, ingredients)
	if err := conn.Write(ctx, dispense); err != nil {
		return fmt.Errorf("ecamctl: dispense: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "brewing %s...\n", brewFlags.beverage)
	return nil
}

func buildBrewRequest(beverage protocol.BeverageID) (recipe.BrewRequest, error) {
	req := recipe.BrewRequest{Beverage: beverage}

	if brewFlags.coffee >= 0 {
		v := uint16(brewFlags.coffee)
		req.Coffee = &v
	}
	if brewFlags.milk >= 0 {
		v := uint16(brewFlags.milk)
		req.Milk = &v
	}
	if brewFlags.hotWater >= 0 {
		v := uint16(brewFlags.hotWater)
		req.HotWater = &v
	}
	if brewFlags.taste != "" {
		t, err := parseTaste(brewFlags.taste)
		if err != nil {
			return recipe.BrewRequest{}, err
		}
		req.Taste = &t
	}
	if brewFlags.temperature != "" {
		t, err := parseTemperature(brewFlags.temperature)
		if err != nil {
			return recipe.BrewRequest{}, err
		}
		req.Temperature = &t
	}
	return req, nil
}
