package protocol

// Hardware-facing enumerations. Numeric values for RequestID and the
// MonitorStateBody field layout are frozen to the wire and verified by the
// concrete test vectors this module ships with; values for enumerations the
// wire never pins down in a test vector (accessory/switch/alarm/ingredient
// identities beyond the ones a test vector exercises) are assigned in the
// same ascending, declaration-ordered style the firmware uses elsewhere.

// MachineState is the coarse operating state reported in MonitorStateBody.
type MachineState uint8

const (
	MachineStateStandBy           MachineState = 0
	MachineStateTurningOn         MachineState = 1
	MachineStateShuttingDown      MachineState = 2
	MachineStateMilkCleaning      MachineState = 3
	MachineStateRinsing           MachineState = 4
	MachineStateMilkPreparation   MachineState = 5
	MachineStateHotWaterDelivery  MachineState = 6
	MachineStateReadyOrDispensing MachineState = 7
	MachineStateDescaling         MachineState = 8
)

func (s MachineState) String() string {
	switch s {
	case MachineStateStandBy:
		return "StandBy"
	case MachineStateTurningOn:
		return "TurningOn"
	case MachineStateShuttingDown:
		return "ShuttingDown"
	case MachineStateMilkCleaning:
		return "MilkCleaning"
	case MachineStateRinsing:
		return "Rinsing"
	case MachineStateMilkPreparation:
		return "MilkPreparation"
	case MachineStateHotWaterDelivery:
		return "HotWaterDelivery"
	case MachineStateReadyOrDispensing:
		return "ReadyOrDispensing"
	case MachineStateDescaling:
		return "Descaling"
	default:
		return "MachineState(?)"
	}
}

func lookupMachineState(raw uint8) (MachineState, bool) {
	switch MachineState(raw) {
	case MachineStateStandBy, MachineStateTurningOn, MachineStateShuttingDown,
		MachineStateMilkCleaning, MachineStateRinsing, MachineStateMilkPreparation,
		MachineStateHotWaterDelivery, MachineStateReadyOrDispensing, MachineStateDescaling:
		return MachineState(raw), true
	default:
		return 0, false
	}
}

// DecodeMachineState lifts a raw byte into the typed sum type.
func DecodeMachineState(raw uint8) Enum[MachineState] {
	return DecodeEnum[MachineState](raw, lookupMachineState)
}

// Accessory identifies the currently attached (or requested) accessory.
type Accessory uint8

const (
	AccessoryNone  Accessory = 0
	AccessoryWater Accessory = 1
	AccessoryMilk  Accessory = 2
)

func (a Accessory) String() string {
	switch a {
	case AccessoryNone:
		return "None"
	case AccessoryWater:
		return "Water"
	case AccessoryMilk:
		return "Milk"
	default:
		return "Accessory(?)"
	}
}

func lookupAccessory(raw uint8) (Accessory, bool) {
	switch Accessory(raw) {
	case AccessoryNone, AccessoryWater, AccessoryMilk:
		return Accessory(raw), true
	default:
		return 0, false
	}
}

// DecodeAccessory lifts a raw byte into the typed sum type.
func DecodeAccessory(raw uint8) Enum[Accessory] {
	return DecodeEnum[Accessory](raw, lookupAccessory)
}

// Switch identifies a single machine micro-switch reported in the
// MonitorStateBody switches bitfield.
type Switch uint8

const (
	SwitchWaterTank            Switch = 0
	SwitchDripTray             Switch = 1
	SwitchWaterSpout           Switch = 2
	SwitchCoffeeGroundsDrawer  Switch = 3
	SwitchCoffeeBeanHopper     Switch = 4
	SwitchMilkCarafe           Switch = 5
	SwitchCleanKnobEngaged     Switch = 6
)

func lookupSwitch(raw uint8) (Switch, bool) {
	switch Switch(raw) {
	case SwitchWaterTank, SwitchDripTray, SwitchWaterSpout, SwitchCoffeeGroundsDrawer,
		SwitchCoffeeBeanHopper, SwitchMilkCarafe, SwitchCleanKnobEngaged:
		return Switch(raw), true
	default:
		return 0, false
	}
}

// DecodeSwitch lifts a raw byte into the typed sum type.
func DecodeSwitch(raw uint8) Enum[Switch] {
	return DecodeEnum[Switch](raw, lookupSwitch)
}

// Alarm identifies a single machine alarm condition reported in the
// MonitorStateBody alarms bitfield. CleanKnob is excluded from the status
// projection's alarm-detection rule (see internal/connection).
type Alarm uint8

const (
	AlarmDescaleNeeded         Alarm = 0
	AlarmNoWater               Alarm = 1
	AlarmNoCoffeeBeans         Alarm = 2
	AlarmGroundsDrawerMissing  Alarm = 3
	AlarmGroundsContainerFull  Alarm = 4
	AlarmCleanKnob             Alarm = 5
	AlarmWaterTankMissing      Alarm = 6
	AlarmGenericFault          Alarm = 7
)

func (a Alarm) String() string {
	switch a {
	case AlarmDescaleNeeded:
		return "DescaleNeeded"
	case AlarmNoWater:
		return "NoWater"
	case AlarmNoCoffeeBeans:
		return "NoCoffeeBeans"
	case AlarmGroundsDrawerMissing:
		return "GroundsDrawerMissing"
	case AlarmGroundsContainerFull:
		return "GroundsContainerFull"
	case AlarmCleanKnob:
		return "CleanKnob"
	case AlarmWaterTankMissing:
		return "WaterTankMissing"
	case AlarmGenericFault:
		return "GenericFault"
	default:
		return "Alarm(?)"
	}
}

func lookupAlarm(raw uint8) (Alarm, bool) {
	switch Alarm(raw) {
	case AlarmDescaleNeeded, AlarmNoWater, AlarmNoCoffeeBeans, AlarmGroundsDrawerMissing,
		AlarmGroundsContainerFull, AlarmCleanKnob, AlarmWaterTankMissing, AlarmGenericFault:
		return Alarm(raw), true
	default:
		return 0, false
	}
}

// DecodeAlarm lifts a raw byte into the typed sum type.
func DecodeAlarm(raw uint8) Enum[Alarm] {
	return DecodeEnum[Alarm](raw, lookupAlarm)
}

// Ingredient identifies a recipe component, including the structural
// sentinels (Visible, IndexLength, Programmable) used only to shape the
// wire payload and never surfaced in an assembled Recipe.
type Ingredient uint8

const (
	IngredientCoffee        Ingredient = 0
	IngredientMilk          Ingredient = 1
	IngredientHotWater      Ingredient = 2
	IngredientTaste         Ingredient = 3
	IngredientTemp          Ingredient = 4
	IngredientInversion     Ingredient = 5
	IngredientDueXPer       Ingredient = 6
	IngredientIndexLength   Ingredient = 7
	IngredientVisible       Ingredient = 8
	IngredientProgrammable  Ingredient = 9
	IngredientAccessorio    Ingredient = 10
)

func (i Ingredient) String() string {
	switch i {
	case IngredientCoffee:
		return "Coffee"
	case IngredientMilk:
		return "Milk"
	case IngredientHotWater:
		return "HotWater"
	case IngredientTaste:
		return "Taste"
	case IngredientTemp:
		return "Temp"
	case IngredientInversion:
		return "Inversion"
	case IngredientDueXPer:
		return "DueXPer"
	case IngredientIndexLength:
		return "IndexLength"
	case IngredientVisible:
		return "Visible"
	case IngredientProgrammable:
		return "Programmable"
	case IngredientAccessorio:
		return "Accessorio"
	default:
		return "Ingredient(?)"
	}
}

func lookupIngredient(raw uint8) (Ingredient, bool) {
	switch Ingredient(raw) {
	case IngredientCoffee, IngredientMilk, IngredientHotWater, IngredientTaste, IngredientTemp,
		IngredientInversion, IngredientDueXPer, IngredientIndexLength, IngredientVisible,
		IngredientProgrammable, IngredientAccessorio:
		return Ingredient(raw), true
	default:
		return 0, false
	}
}

// DecodeIngredient lifts a raw byte into the typed sum type.
func DecodeIngredient(raw uint8) Enum[Ingredient] {
	return DecodeEnum[Ingredient](raw, lookupIngredient)
}

// IsWide reports whether this ingredient's quantity is encoded as a u16
// big-endian value on the wire (Coffee/Milk/HotWater) versus a single byte.
// Unknown ingredients have no determinable width; callers must not guess.
func (i Ingredient) IsWide() bool {
	switch i {
	case IngredientCoffee, IngredientMilk, IngredientHotWater:
		return true
	default:
		return false
	}
}

// BeverageID identifies a selectable beverage recipe slot.
type BeverageID uint8

const (
	BeverageEspresso      BeverageID = 0
	BeverageCoffee        BeverageID = 1
	BeverageLongCoffee    BeverageID = 2
	BeverageEspresso2x    BeverageID = 3
	BeverageCoffee2x      BeverageID = 4
	BeverageAmericano     BeverageID = 5
	BeverageCappuccino    BeverageID = 6
	BeverageLatteMacchiato BeverageID = 7
	BeverageCortado       BeverageID = 8
	BeverageHotMilk       BeverageID = 9
	BeverageMilkFroth     BeverageID = 10
	BeverageHotWater      BeverageID = 11
	BeverageCustom01      BeverageID = 20
	BeverageCustom02      BeverageID = 21
	BeverageCustom03      BeverageID = 22
	BeverageCustom04      BeverageID = 23
	BeverageCustom05      BeverageID = 24
	BeverageCustom06      BeverageID = 25
	BeverageCustom07      BeverageID = 26
	BeverageCustom08      BeverageID = 27
	BeverageCustom09      BeverageID = 28
	BeverageCustom10      BeverageID = 29
)

func lookupBeverageID(raw uint8) (BeverageID, bool) {
	switch BeverageID(raw) {
	case BeverageEspresso, BeverageCoffee, BeverageLongCoffee, BeverageEspresso2x, BeverageCoffee2x,
		BeverageAmericano, BeverageCappuccino, BeverageLatteMacchiato, BeverageCortado, BeverageHotMilk,
		BeverageMilkFroth, BeverageHotWater, BeverageCustom01, BeverageCustom02, BeverageCustom03,
		BeverageCustom04, BeverageCustom05, BeverageCustom06, BeverageCustom07, BeverageCustom08,
		BeverageCustom09, BeverageCustom10:
		return BeverageID(raw), true
	default:
		return 0, false
	}
}

// DecodeBeverageID lifts a raw byte into the typed sum type.
func DecodeBeverageID(raw uint8) Enum[BeverageID] {
	return DecodeEnum[BeverageID](raw, lookupBeverageID)
}

// Taste is the coarse strength setting for a beverage; the merge rule
// requires the ingredient's declared range to be exactly [0, 5].
type Taste uint8

const (
	TasteExtraMild   Taste = 0
	TasteMild        Taste = 1
	TasteNormal      Taste = 2
	TasteStrong      Taste = 3
	TasteExtraStrong Taste = 4
	TasteMax         Taste = 5
)

func lookupTaste(raw uint8) (Taste, bool) {
	if raw <= uint8(TasteMax) {
		return Taste(raw), true
	}
	return 0, false
}

// DecodeTaste lifts a raw byte into the typed sum type.
func DecodeTaste(raw uint8) Enum[Taste] {
	return DecodeEnum[Taste](raw, lookupTaste)
}

// Temperature is a placeholder enum: the wire never encodes a real
// temperature selection for Temp today, so merge always emits Low.
type Temperature uint8

const (
	TemperatureLow    Temperature = 0
	TemperatureNormal Temperature = 1
	TemperatureHigh   Temperature = 2
)

func lookupTemperature(raw uint8) (Temperature, bool) {
	switch Temperature(raw) {
	case TemperatureLow, TemperatureNormal, TemperatureHigh:
		return Temperature(raw), true
	default:
		return 0, false
	}
}

// DecodeTemperature lifts a raw byte into the typed sum type.
func DecodeTemperature(raw uint8) Enum[Temperature] {
	return DecodeEnum[Temperature](raw, lookupTemperature)
}

// OperationTrigger selects whether a BeverageDispensingMode request starts
// or stops a dispense.
type OperationTrigger uint8

const (
	OperationTriggerStart OperationTrigger = 0
	OperationTriggerStop  OperationTrigger = 1
)

func lookupOperationTrigger(raw uint8) (OperationTrigger, bool) {
	switch OperationTrigger(raw) {
	case OperationTriggerStart, OperationTriggerStop:
		return OperationTrigger(raw), true
	default:
		return 0, false
	}
}

// DecodeOperationTrigger lifts a raw byte into the typed sum type.
func DecodeOperationTrigger(raw uint8) Enum[OperationTrigger] {
	return DecodeEnum[OperationTrigger](raw, lookupOperationTrigger)
}

// BeverageTasteType selects the dispensing mode's taste-profile handling.
type BeverageTasteType uint8

const (
	BeverageTasteTypePrepare     BeverageTasteType = 0
	BeverageTasteTypeSave        BeverageTasteType = 1
	BeverageTasteTypePrepareSave BeverageTasteType = 2
)

func lookupBeverageTasteType(raw uint8) (BeverageTasteType, bool) {
	switch BeverageTasteType(raw) {
	case BeverageTasteTypePrepare, BeverageTasteTypeSave, BeverageTasteTypePrepareSave:
		return BeverageTasteType(raw), true
	default:
		return 0, false
	}
}

// DecodeBeverageTasteType lifts a raw byte into the typed sum type.
func DecodeBeverageTasteType(raw uint8) Enum[BeverageTasteType] {
	return DecodeEnum[BeverageTasteType](raw, lookupBeverageTasteType)
}

// RequestID identifies a request/response body schema. Values are frozen
// to the wire.
type RequestID uint8

const (
	RequestIDMonitorV2              RequestID = 117
	RequestIDProfileNameRead        RequestID = 164
	RequestIDRecipePriorityRead     RequestID = 168
	RequestIDBeverageDispensingMode RequestID = 131
	RequestIDAppControl             RequestID = 132
	RequestIDParameterRead          RequestID = 149
	RequestIDParameterReadExt       RequestID = 161
	RequestIDStatisticsRead         RequestID = 162
	RequestIDRecipeQuantityRead     RequestID = 166
	RequestIDSetFavoriteBeverages   RequestID = 173
	RequestIDRecipeMinMaxSync       RequestID = 176
)

func lookupRequestID(raw uint8) (RequestID, bool) {
	switch RequestID(raw) {
	case RequestIDMonitorV2, RequestIDProfileNameRead, RequestIDRecipePriorityRead,
		RequestIDBeverageDispensingMode, RequestIDAppControl, RequestIDParameterRead,
		RequestIDParameterReadExt, RequestIDStatisticsRead, RequestIDRecipeQuantityRead,
		RequestIDSetFavoriteBeverages, RequestIDRecipeMinMaxSync:
		return RequestID(raw), true
	default:
		return 0, false
	}
}

// DecodeRequestID lifts a raw byte into the typed sum type.
func DecodeRequestID(raw uint8) Enum[RequestID] {
	return DecodeEnum[RequestID](raw, lookupRequestID)
}
