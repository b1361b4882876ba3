package effects

import (
	"go.uber.org/zap"

	"github.com/jask/orderview/internal/prefs"
	"github.com/jask/orderview/internal/source"
)

// Deps are the collaborators the effects call.
type Deps struct {
	Source    source.Source
	Selection prefs.SelectedUser
	Log       *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// All returns the user and order effects in registration order.
func All(d Deps) []Effect {
	return append(UserEffects(d), OrderEffects(d)...)
}
