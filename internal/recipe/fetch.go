package recipe

import (
	"context"
	"fmt"

	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/protocol"
)

// writer is the subset of connection.Connection Fetch needs, kept narrow
// so tests can supply a fake without pulling in the full Connection
// goroutine machinery.
type writer interface {
	Write(ctx context.Context, req protocol.Request) error
}

// tapSource is the subset of connection.Connection's PacketTap contract
// Fetch consumes.
type tapSource interface {
	Frames() <-chan protocol.Response
}

type rawFetch struct {
	quantity     []protocol.RecipeInfo
	minmax       []protocol.RecipeMinMax
	gotQuantity  bool
	gotMinMax    bool
	empty        bool
}

func (r *rawFetch) complete() bool {
	return r.empty || (r.gotQuantity && r.gotMinMax)
}

// Fetch issues RecipeQuantityRead and RecipeMinMaxSync for every beverage
// in beverages and accumulates responses from tap until each beverage is
// complete: both paired responses seen, or either response came back
// empty (in which case that beverage is dropped from the result).
// Unrelated tapped packets are logged and ignored.
func Fetch(ctx context.Context, w writer, tap tapSource, beverages []protocol.BeverageID) (map[protocol.BeverageID]Recipe, error) {
	acc := make(map[protocol.BeverageID]*rawFetch, len(beverages))
	for _, b := range beverages {
		acc[b] = &rawFetch{}
	}

	for _, b := range beverages {
		if err := w.Write(ctx, protocol.RecipeQuantityReadRequest{Profile: 1, Beverage: protocol.Known(b)}); err != nil {
			return nil, fmt.Errorf("recipe: fetch quantity for %v: %w", b, err)
		}
		if err := w.Write(ctx, protocol.RecipeMinMaxSyncRequest{Beverage: protocol.Known(b)}); err != nil {
			return nil, fmt.Errorf("recipe: fetch range for %v: %w", b, err)
		}
	}

	remaining := len(beverages)
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case resp, ok := <-tap.Frames():
			if !ok {
				return nil, fmt.Errorf("recipe: packet tap closed before fetch completed")
			}
			switch v := resp.(type) {
			case protocol.RecipeQuantityReadResponse:
				bev, ok := v.Beverage.Value()
				if !ok {
					continue
				}
				rf, tracked := acc[bev]
				if !tracked || rf.complete() {
					continue
				}
				rf.quantity = v.Items
				rf.gotQuantity = true
				if len(v.Items) == 0 {
					rf.empty = true
				}
				if rf.complete() {
					remaining--
				}
			case protocol.RecipeMinMaxSyncResponse:
				bev, ok := v.Beverage.Value()
				if !ok {
					continue
				}
				rf, tracked := acc[bev]
				if !tracked || rf.complete() {
					continue
				}
				rf.minmax = v.Items
				rf.gotMinMax = true
				if len(v.Items) == 0 {
					rf.empty = true
				}
				if rf.complete() {
					remaining--
				}
			default:
				logging.L().Debug("recipe_fetch_ignored_packet", "type", fmt.Sprintf("%T", resp))
			}
		}
	}

	out := make(map[protocol.BeverageID]Recipe, len(beverages))
	for b, rf := range acc {
		if rf.empty {
			continue
		}
		merged, err := merge(b, rf.quantity, rf.minmax)
		if err != nil {
			logging.L().Warn("recipe_merge_dropped", "beverage", b, "error", err)
			continue
		}
		out[b] = merged
	}
	return out, nil
}
