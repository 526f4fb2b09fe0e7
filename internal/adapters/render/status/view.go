package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/selfcord/internal/application"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type RenderOptions struct {
	Now time.Time
	// StaleAfter marks sessions whose last login is older than this.
	// Zero disables the marker.
	StaleAfter time.Duration
}

func renderView(statuses []application.Status, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Discord Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.Status, opts RenderOptions, s styles) string {
	parts := []string{
		s.account.Render(accountTitle(status.Account.Name, status.Account.ID)),
		tokenLine(status, s),
	}
	parts = append(parts, sessionLines(status.LastSession, opts, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func tokenLine(status application.Status, s styles) string {
	label := s.key.Render("token:")
	if !status.HasToken {
		return label + " " + s.tokenNone.Render("none")
	}
	return label + " " + s.tokenSet.Render("stored") + " " + s.meta.Render("("+status.Account.Auth.SecretRef+")")
}

func sessionLines(session *domain.SessionSnapshot, opts RenderOptions, s styles) []string {
	if session == nil {
		return []string{s.detail.Render("session: never logged in")}
	}

	user := s.key.Render("user:") + " " + s.detail.Render(session.UserTag)
	if session.UserID != "" {
		user += " " + s.meta.Render("("+session.UserID+")")
	}

	guilds := s.key.Render("guilds:") + " " + s.detail.Render(humanize.Comma(int64(session.GuildCount)))

	loginStyle := lipgloss.NewStyle().Foreground(loginColor(session.LastLoginAt, opts))
	login := s.key.Render("last login:") + " " + loginStyle.Render(formatLastLogin(session.LastLoginAt, opts.Now))
	if isStale(session.LastLoginAt, opts) {
		login += " " + s.warning.Render("[stale]")
	}

	return []string{user, guilds, login}
}

func formatLastLogin(at, now time.Time) string {
	if at.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}
	if at.After(now) {
		return "just now"
	}
	return humanize.RelTime(at, now, "ago", "from now") + " (" + at.Format("15:04 on 02 Jan") + ")"
}

func isStale(at time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || opts.StaleAfter <= 0 || at.IsZero() {
		return false
	}
	return opts.Now.Sub(at) > opts.StaleAfter
}

func accountTitle(name string, id domain.AccountID) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == string(id) {
		return string(id)
	}
	return fmt.Sprintf("%s (%s)", trimmed, id)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 faded to 255 bright.
	baseColor := 240.0
	targetColor := 255.0

	interpolated := baseColor + (targetColor-baseColor)*normalized
	return lipgloss.Color(fmt.Sprintf("%d", int(interpolated)))
}

// loginColor fades from bright to grey as the login ages toward StaleAfter.
func loginColor(at time.Time, opts RenderOptions) lipgloss.Color {
	if opts.Now.IsZero() || at.IsZero() || opts.StaleAfter <= 0 || at.After(opts.Now) {
		return lipgloss.Color("255")
	}

	age := opts.Now.Sub(at)
	return interpolateColor(opts.StaleAfter.Seconds()-age.Seconds(), 0, opts.StaleAfter.Seconds())
}
