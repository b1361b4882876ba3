package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/orderview/internal/state"
)

// UserEffects wires the user slice to the data source and the persisted
// selection.
func UserEffects(d Deps) []Effect {
	log := d.logger()
	return []Effect{
		{
			Name:   "loadUsers",
			On:     []string{state.TypeLoadUsers},
			Policy: Exhaust,
			Run: func(ctx context.Context, _ state.Action, out Output) {
				users, err := d.Source.ListUsers(ctx)
				if err != nil {
					out.Emit(state.LoadUsersFailure{Err: fmt.Errorf("list users: %w", err)})
					return
				}
				out.Emit(state.LoadUsersSuccess{Users: users})
			},
		},
		{
			// Orders are only loaded once users are.
			Name:   "loadOrdersAfterUsers",
			On:     []string{state.TypeLoadUsersSuccess},
			Policy: Inline,
			Run: func(_ context.Context, _ state.Action, out Output) {
				out.Emit(state.LoadOrders{})
			},
		},
		{
			Name:   "restoreSelectedUser",
			On:     []string{state.TypeLoadUsersSuccess},
			Policy: Inline,
			Run: func(ctx context.Context, _ state.Action, out Output) {
				id, err := d.Selection.Load(ctx)
				if err != nil {
					log.Warn("restore selection", zap.Error(err))
					return
				}
				if id == nil {
					return
				}
				log.Info("restoring selection", zap.Int64("user_id", *id))
				out.Emit(state.SelectUser{UserID: id})
			},
		},
		{
			Name:   "saveSelectedUser",
			On:     []string{state.TypeSelectUser},
			Policy: Switch,
			Run: func(ctx context.Context, a state.Action, out Output) {
				id := a.(state.SelectUser).UserID
				out.Guard(func() {
					if err := d.Selection.Save(ctx, id); err != nil {
						log.Warn("persist selection", zap.Error(err))
					}
				})
			},
		},
		{
			Name:   "selectUser",
			On:     []string{state.TypeSelectUser},
			Policy: Switch,
			Run: func(_ context.Context, a state.Action, out Output) {
				if id := a.(state.SelectUser).UserID; id != nil {
					out.Emit(state.LoadUserDetails{UserID: *id})
				}
			},
		},
		{
			Name: "loadUserDetails",
			// Any selection change supersedes the fetch in flight, including
			// clearing it.
			On:     []string{state.TypeLoadUserDetails, state.TypeSelectUser},
			Policy: Switch,
			Run: func(ctx context.Context, a state.Action, out Output) {
				load, ok := a.(state.LoadUserDetails)
				if !ok {
					return
				}
				id := load.UserID
				u, found, err := d.Source.GetUser(ctx, id)
				switch {
				case err != nil:
					out.Emit(state.LoadUserDetailsFailure{Err: fmt.Errorf("get user %d: %w", id, err)})
				case !found:
					out.Emit(state.LoadUserDetailsFailure{Err: fmt.Errorf("user %d: %w", id, state.ErrUserNotFound)})
				default:
					out.Emit(state.LoadUserDetailsSuccess{User: u})
				}
			},
		},
		{
			Name:   "addUser",
			On:     []string{state.TypeAddUser},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				u, err := d.Source.CreateUser(ctx, a.(state.AddUser).User)
				if err != nil {
					out.Emit(state.AddUserFailure{Err: fmt.Errorf("add user: %w", err)})
					return
				}
				out.Emit(state.AddUserSuccess{User: u})
			},
		},
		{
			Name:   "updateUser",
			On:     []string{state.TypeUpdateUser},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				u, err := d.Source.UpdateUser(ctx, a.(state.UpdateUser).User)
				if err != nil {
					out.Emit(state.UpdateUserFailure{Err: fmt.Errorf("update user: %w", err)})
					return
				}
				out.Emit(state.UpdateUserSuccess{User: u})
			},
		},
		{
			Name:   "deleteUser",
			On:     []string{state.TypeDeleteUser},
			Policy: Merge,
			Run: func(ctx context.Context, a state.Action, out Output) {
				id := a.(state.DeleteUser).UserID
				if err := d.Source.DeleteUser(ctx, id); err != nil {
					out.Emit(state.DeleteUserFailure{Err: fmt.Errorf("delete user %d: %w", id, err)})
					return
				}
				out.Emit(state.DeleteUserSuccess{UserID: id})
			},
		},
	}
}
