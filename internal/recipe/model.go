// Package recipe implements the two-phase recipe fetch/merge and the
// brew-request validation that assembles a final dispense request.
package recipe

import "github.com/barista-systems/ecamctl/internal/protocol"

// AccessoryKind is the merged form of the Accessorio ingredient.
type AccessoryKind int

const (
	AccessoryNone AccessoryKind = iota
	AccessoryWater
	AccessoryMilk
)

// Range is a merged numeric ingredient's bounds and default.
type Range struct {
	Min, Value, Max uint16
}

// Contains reports whether v lies within [Min, Max] inclusive.
func (r Range) Contains(v uint16) bool { return v >= r.Min && v <= r.Max }

// ToggleSetting is the merged form of Inversion/DueXPer: a boolean that may
// or may not be user-adjustable.
type ToggleSetting struct {
	Enabled bool
	Fixed   bool
}

// Recipe is one beverage's fully merged, ready-to-validate-against recipe.
type Recipe struct {
	Beverage    protocol.BeverageID
	Numeric     map[protocol.Ingredient]Range // keys: Coffee, Milk, HotWater (whichever are present)
	Taste       Range                         // min/max always (0,_,5) per the merge rule; zero value if absent
	HasTaste    bool
	TasteValue  protocol.Taste
	Temperature protocol.Temperature
	Accessory   AccessoryKind
	Inversion   ToggleSetting
	DoubleBrew  ToggleSetting
}
