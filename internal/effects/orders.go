package effects

import (
	"context"
	"fmt"

	"github.com/jask/orderview/internal/state"
)

// OrderEffects wires the order slice to the data source.
func OrderEffects(d Deps) []Effect {
	return []Effect{
		{
			Name:   "loadOrders",
			On:     []string{state.TypeLoadOrders},
			Policy: Exhaust,
			Run: func(ctx context.Context, _ state.Action, out Output) {
				orders, err := d.Source.ListOrders(ctx)
				if err != nil {
					out.Emit(state.LoadOrdersFailure{Err: fmt.Errorf("list orders: %w", err)})
					return
				}
				out.Emit(state.LoadOrdersSuccess{Orders: orders})
			},
		},
		{
			Name:   "addOrder",
			On:     []string{state.TypeAddOrder},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				o, err := d.Source.CreateOrder(ctx, a.(state.AddOrder).Order)
				if err != nil {
					out.Emit(state.AddOrderFailure{Err: fmt.Errorf("add order: %w", err)})
					return
				}
				out.Emit(state.AddOrderSuccess{Order: o})
			},
		},
		{
			Name:   "updateOrder",
			On:     []string{state.TypeUpdateOrder},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				o, err := d.Source.UpdateOrder(ctx, a.(state.UpdateOrder).Order)
				if err != nil {
					out.Emit(state.UpdateOrderFailure{Err: fmt.Errorf("update order: %w", err)})
					return
				}
				out.Emit(state.UpdateOrderSuccess{Order: o})
			},
		},
		{
			Name:   "deleteOrder",
			On:     []string{state.TypeDeleteOrder},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				id := a.(state.DeleteOrder).OrderID
				if err := d.Source.DeleteOrder(ctx, id); err != nil {
					out.Emit(state.DeleteOrderFailure{Err: fmt.Errorf("delete order %d: %w", id, err)})
					return
				}
				out.Emit(state.DeleteOrderSuccess{OrderID: id})
			},
		},
	}
}
