package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orderview/internal/state"
)

const (
	listWidth   = 28
	detailWidth = 34
)

func (a *App) View() string {
	if a.quit {
		return ""
	}
	header := headerBarStyle.Render(titleStyle.Render("orderview") + dimStyle.Render("  users & orders"))

	summary := a.view.Summary()
	right := lipgloss.JoinVertical(lipgloss.Left,
		a.renderName(summary),
		a.renderOrders(),
		a.renderTotal(summary),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, a.renderUsers(), right)

	lines := []string{header, body}
	if line := a.statusLine(); line != "" {
		lines = append(lines, statusBarStyle.Render(line))
	}
	if a.jumping {
		lines = append(lines, a.jump.View())
	} else {
		lines = append(lines, renderHelp(a.keys.help()))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderUsers() string {
	users := a.view.Users()
	selected, hasSel := a.view.SelectedID()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Users"))
	b.WriteString("\n")
	if len(users) == 0 {
		if a.view.Loading() {
			b.WriteString(loadingStyle.Render("loading..."))
		} else {
			b.WriteString(dimStyle.Render("no users"))
		}
	}
	for i, u := range users {
		marker := "  "
		if i == a.cursor {
			marker = cursorStyle.Render("> ")
		}
		name := rowStyle.Render(u.Name)
		if hasSel && u.ID == selected {
			name = selectedStyle.Render(u.Name)
		}
		b.WriteString(marker + name)
		if i < len(users)-1 {
			b.WriteString("\n")
		}
	}
	return focusPaneStyle.Width(listWidth).Render(b.String())
}

func (a *App) renderName(s state.Summary) string {
	name := s.UserName
	if name == "" {
		name = dimStyle.Render("no user selected")
	} else {
		name = selectedStyle.Render(name)
	}
	return paneStyle.Width(detailWidth).Render(titleStyle.Render("User") + "\n" + name)
}

func (a *App) renderOrders() string {
	orders := a.view.Orders()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Orders"))
	if len(orders) == 0 {
		b.WriteString("\n" + dimStyle.Render("none"))
	}
	for _, o := range orders {
		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("#%-6d %12s", o.ID, formatMoney(a.currency, o.Total))))
	}
	return paneStyle.Width(detailWidth).Render(b.String())
}

func (a *App) renderTotal(s state.Summary) string {
	return paneStyle.Width(detailWidth).Render(
		titleStyle.Render("Total") + "\n" + totalStyle.Render(formatMoney(a.currency, s.TotalOrdersAmount)),
	)
}

func (a *App) statusLine() string {
	if err := a.view.Err(); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}
	if a.status != "" {
		return a.status
	}
	if a.view.Loading() {
		return loadingStyle.Render("loading...")
	}
	return ""
}

func formatMoney(symbol string, v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%s%.2f", sign, symbol, v)
}
