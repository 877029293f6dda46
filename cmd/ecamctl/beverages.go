package main

import (
	"fmt"
	"strings"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

// beverageNames maps the lowercase --beverage flag spelling to its wire
// enum. Kept here rather than on protocol.BeverageID itself: the core
// protocol package only needs the numeric value, the CLI is the one place
// that needs a human-typed name.
var beverageNames = map[string]protocol.BeverageID{
	"espresso":        protocol.BeverageEspresso,
	"coffee":          protocol.BeverageCoffee,
	"long-coffee":     protocol.BeverageLongCoffee,
	"espresso2x":      protocol.BeverageEspresso2x,
	"coffee2x":        protocol.BeverageCoffee2x,
	"americano":       protocol.BeverageAmericano,
	"cappuccino":      protocol.BeverageCappuccino,
	"latte-macchiato": protocol.BeverageLatteMacchiato,
	"cortado":         protocol.BeverageCortado,
	"hot-milk":        protocol.BeverageHotMilk,
	"milk-froth":      protocol.BeverageMilkFroth,
	"hot-water":       protocol.BeverageHotWater,
}

func parseBeverage(s string) (protocol.BeverageID, error) {
	if b, ok := beverageNames[strings.ToLower(s)]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("unknown beverage %q (want one of: %s)", s, strings.Join(sortedKeys(beverageNames), ", "))
}

var tasteNames = map[string]protocol.Taste{
	"extra-mild":   protocol.TasteExtraMild,
	"mild":         protocol.TasteMild,
	"normal":       protocol.TasteNormal,
	"strong":       protocol.TasteStrong,
	"extra-strong": protocol.TasteExtraStrong,
}

func parseTaste(s string) (protocol.Taste, error) {
	if t, ok := tasteNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown taste %q (want one of: %s)", s, strings.Join(sortedKeys(tasteNames), ", "))
}

var temperatureNames = map[string]protocol.Temperature{
	"low":    protocol.TemperatureLow,
	"normal": protocol.TemperatureNormal,
	"high":   protocol.TemperatureHigh,
}

func parseTemperature(s string) (protocol.Temperature, error) {
	if t, ok := temperatureNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown temperature %q (want one of: %s)", s, strings.Join(sortedKeys(temperatureNames), ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
