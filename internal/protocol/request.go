package protocol

// Request is any message this client can send. Concrete types live below;
// each knows its own id, whether it expects a response, and how to encode
// its body.
type Request interface {
	ID() RequestID
	ResponseExpected() bool
	EncodeBody() []byte
}

// EncodeRequest produces the full REQUEST_ID|DIR|BODY payload (not yet
// framed — pass the result to EncodeFrame).
func EncodeRequest(r Request) []byte {
	dir := byte(0x0F)
	if r.ResponseExpected() {
		dir = 0xF0
	}
	out := make([]byte, 0, 2+16)
	out = append(out, byte(r.ID()), dir)
	out = append(out, r.EncodeBody()...)
	return out
}

// AppControlOp selects the fixed-body AppControl operation.
type AppControlOp uint8

const (
	AppControlTurnOn        AppControlOp = iota // body [2, 1]
	AppControlRefreshAppID                      // body [3, 2]
)

// AppControlRequest asks the machine to turn on or to refresh its paired
// app id. Never expects a response.
type AppControlRequest struct {
	Op AppControlOp
}

func (AppControlRequest) ID() RequestID        { return RequestIDAppControl }
func (AppControlRequest) ResponseExpected() bool { return false }
func (r AppControlRequest) EncodeBody() []byte {
	switch r.Op {
	case AppControlRefreshAppID:
		return []byte{3, 2}
	default:
		return []byte{2, 1}
	}
}

// MonitorV2Request polls the machine's current MonitorStateBody. Never
// expects a response flag (DIR=0x0F) even though the device replies.
type MonitorV2Request struct{}

func (MonitorV2Request) ID() RequestID          { return RequestIDMonitorV2 }
func (MonitorV2Request) ResponseExpected() bool { return false }
func (MonitorV2Request) EncodeBody() []byte     { return nil }

// BeverageDispensingModeRequest starts or stops dispensing a beverage with
// the given, already-validated ingredient list.
type BeverageDispensingModeRequest struct {
	Beverage    Enum[BeverageID]
	Trigger     Enum[OperationTrigger]
	Ingredients []RecipeInfo
	TasteMode   Enum[BeverageTasteType]
}

func (BeverageDispensingModeRequest) ID() RequestID          { return RequestIDBeverageDispensingMode }
func (BeverageDispensingModeRequest) ResponseExpected() bool { return true }
func (r BeverageDispensingModeRequest) EncodeBody() []byte {
	out := []byte{r.Beverage.Byte(), r.Trigger.Byte(), byte(len(r.Ingredients))}
	for _, ing := range r.Ingredients {
		out, _ = EncodeRecipeInfo(ing, out)
	}
	out = append(out, r.TasteMode.Byte())
	return out
}

// ParameterReadRequest reads a parameter block (len <= 10 blocks).
type ParameterReadRequest struct {
	Param uint16
	Len   uint8
}

func (ParameterReadRequest) ID() RequestID          { return RequestIDParameterRead }
func (ParameterReadRequest) ResponseExpected() bool { return true }
func (r ParameterReadRequest) EncodeBody() []byte {
	return []byte{byte(r.Param >> 8), byte(r.Param & 0xFF), r.Len}
}

// ParameterReadExtRequest reads a parameter block (len > 4 blocks).
type ParameterReadExtRequest struct {
	Param uint16
	Len   uint8
}

func (ParameterReadExtRequest) ID() RequestID          { return RequestIDParameterReadExt }
func (ParameterReadExtRequest) ResponseExpected() bool { return true }
func (r ParameterReadExtRequest) EncodeBody() []byte {
	return []byte{byte(r.Param >> 8), byte(r.Param & 0xFF), r.Len}
}

// StatisticsReadRequest reads a window of the statistics log. The device
// silently caps the batch at ~9 regardless of Len; see internal/statistics
// for the re-seeding traversal helper.
type StatisticsReadRequest struct {
	Start uint16
	Len   uint8
}

func (StatisticsReadRequest) ID() RequestID          { return RequestIDStatisticsRead }
func (StatisticsReadRequest) ResponseExpected() bool { return true }
func (r StatisticsReadRequest) EncodeBody() []byte {
	return []byte{byte(r.Start >> 8), byte(r.Start & 0xFF), r.Len}
}

// RecipeQuantityReadRequest fetches a beverage's default ingredient
// quantities for a given profile.
type RecipeQuantityReadRequest struct {
	Profile  uint8
	Beverage Enum[BeverageID]
}

func (RecipeQuantityReadRequest) ID() RequestID          { return RequestIDRecipeQuantityRead }
func (RecipeQuantityReadRequest) ResponseExpected() bool { return true }
func (r RecipeQuantityReadRequest) EncodeBody() []byte {
	return []byte{r.Profile, r.Beverage.Byte()}
}

// RecipeMinMaxSyncRequest fetches a beverage's ingredient ranges.
type RecipeMinMaxSyncRequest struct {
	Beverage Enum[BeverageID]
}

func (RecipeMinMaxSyncRequest) ID() RequestID          { return RequestIDRecipeMinMaxSync }
func (RecipeMinMaxSyncRequest) ResponseExpected() bool { return true }
func (r RecipeMinMaxSyncRequest) EncodeBody() []byte {
	return []byte{r.Beverage.Byte()}
}

// RecipePriorityReadRequest fetches the device's preferred beverage
// ordering.
type RecipePriorityReadRequest struct{}

func (RecipePriorityReadRequest) ID() RequestID          { return RequestIDRecipePriorityRead }
func (RecipePriorityReadRequest) ResponseExpected() bool { return true }
func (RecipePriorityReadRequest) EncodeBody() []byte     { return nil }

// ProfileNameReadRequest fetches profile display names in [Start, End).
type ProfileNameReadRequest struct {
	Start, End uint8
}

func (ProfileNameReadRequest) ID() RequestID          { return RequestIDProfileNameRead }
func (ProfileNameReadRequest) ResponseExpected() bool { return true }
func (r ProfileNameReadRequest) EncodeBody() []byte   { return []byte{r.Start, r.End} }

// SetFavoriteBeveragesRequest overwrites a profile's favorite-beverage list.
type SetFavoriteBeveragesRequest struct {
	Profile uint8
	List    []uint8
}

func (SetFavoriteBeveragesRequest) ID() RequestID          { return RequestIDSetFavoriteBeverages }
func (SetFavoriteBeveragesRequest) ResponseExpected() bool { return true }
func (r SetFavoriteBeveragesRequest) EncodeBody() []byte {
	out := append([]byte{r.Profile}, r.List...)
	return out
}
