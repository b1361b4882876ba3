// Package tui is the terminal presentation of the viewer: a user list, the
// selected user's name, orders and total.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/orderview/internal/config"
	"github.com/jask/orderview/internal/state"
)

// App is the bubbletea model. It reads through a state.View and reacts to
// store changes delivered by a subscription.
type App struct {
	ctx      context.Context
	view     *state.View
	sub      *state.Subscription
	keys     keyMap
	log      *zap.Logger
	currency string

	cursor  int
	jumping bool
	jump    textinput.Model
	status  string
	width   int
	height  int
	quit    bool
}

type changeMsg state.Change

type subClosedMsg struct{}

// New builds the app. sub must come from the same store as view; the app
// closes it on quit.
func New(ctx context.Context, view *state.View, sub *state.Subscription, ui config.UIConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	currency := ui.CurrencySymbol
	if currency == "" {
		currency = "$"
	}
	inp := textinput.New()
	inp.Prompt = "/ "
	inp.Placeholder = "user name"
	inp.CharLimit = 64
	return &App{
		ctx:      ctx,
		view:     view,
		sub:      sub,
		keys:     defaultKeys(),
		log:      log,
		currency: currency,
		jump:     inp,
	}
}

// Init starts the initial user load and begins listening for changes.
func (a *App) Init() tea.Cmd {
	a.view.Reload()
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		c, err := a.sub.Next(a.ctx)
		if err != nil {
			return subClosedMsg{}
		}
		return changeMsg(c)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case changeMsg:
		a.onChange(state.Change(m))
		return a, a.waitForChange()
	case subClosedMsg:
		if !a.quit {
			a.log.Debug("store subscription ended")
		}
		return a, nil
	case tea.KeyMsg:
		if a.jumping {
			return a.handleJumpKey(m)
		}
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) onChange(c state.Change) {
	users := a.view.Users()
	if a.cursor >= len(users) {
		a.cursor = max(len(users)-1, 0)
	}
	switch c.Action.(type) {
	case state.LoadUsersSuccess:
		a.status = ""
		if id, ok := a.view.SelectedID(); ok {
			a.moveCursorTo(users, id)
		}
	case state.SelectUser:
		if id, ok := a.view.SelectedID(); ok {
			a.moveCursorTo(users, id)
		}
	case state.LoadUserDetailsFailure:
		if errors.Is(a.view.Err(), state.ErrUserNotFound) {
			a.status = "selected user no longer exists"
		}
	}
}

func (a *App) moveCursorTo(users []state.User, id int64) {
	for i, u := range users {
		if u.ID == id {
			a.cursor = i
			return
		}
	}
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	users := a.view.Users()
	switch {
	case key.Matches(m, a.keys.Quit):
		a.quit = true
		a.sub.Close()
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(users)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Select):
		if a.cursor < len(users) {
			a.view.Select(users[a.cursor].ID)
		}
	case key.Matches(m, a.keys.Clear):
		a.view.ClearSelection()
		a.status = ""
	case key.Matches(m, a.keys.Reload):
		a.status = "reloading..."
		a.view.Reload()
	case key.Matches(m, a.keys.Jump):
		a.jumping = true
		a.jump.SetValue("")
		return a, a.jump.Focus()
	}
	return a, nil
}

func (a *App) handleJumpKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.jumping = false
		a.jump.Blur()
		return a, nil
	case tea.KeyEnter:
		a.jumping = false
		a.jump.Blur()
		users := a.view.Users()
		i := nearestUser(users, a.jump.Value())
		if i < 0 {
			a.status = "no match"
			return a, nil
		}
		a.cursor = i
		a.status = ""
		a.view.Select(users[i].ID)
		return a, nil
	}
	var cmd tea.Cmd
	a.jump, cmd = a.jump.Update(m)
	return a, cmd
}
