package inventory

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(campaigns []domain.DropsCampaign, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Drops Inventory"),
		s.header.Render(fmt.Sprintf("campaigns: %d", len(campaigns))),
	}

	if len(campaigns) == 0 {
		lines = append(lines, s.empty.Render("No campaigns in progress."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, campaign := range campaigns {
		lines = append(lines, s.section.Render(renderCampaign(campaign, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCampaign(campaign domain.DropsCampaign, opts RenderOptions, s styles) string {
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.campaign.Render(sanitize(campaign.Name)),
		" ",
		s.game.Render("("+sanitize(campaign.Game.Name)+")"),
	)
	if campaign.Upcoming() {
		title += " " + s.upcoming.Render("[upcoming]")
	}

	parts := []string{title, s.dropMeta.Render(campaignWindow(campaign, opts.Now))}
	if len(campaign.TimedDrops) == 0 {
		parts = append(parts, s.empty.Render("no timed drops"))
	}
	for _, drop := range campaign.TimedDrops {
		parts = append(parts, dropLine(drop, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func dropLine(drop domain.TimedDrop, s styles) string {
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderProgressBar(drop.Progress(), 20, s),
		" ",
		s.dropName.Render(sanitize(drop.Name)),
		" ",
		s.dropMeta.Render(fmt.Sprintf("%d/%d min", drop.CurrentMinutes, drop.RequiredMinutes)),
	)

	switch {
	case drop.IsClaimed:
		line += " " + s.claimed.Render("[claimed]")
	case drop.CanClaim():
		line += " " + s.claimable.Render("[claimable]")
	}
	return line
}

func renderProgressBar(progress float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * progress))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func campaignWindow(campaign domain.DropsCampaign, now time.Time) string {
	if campaign.Upcoming() {
		if campaign.StartsAt.IsZero() {
			return "starts: unknown"
		}
		return "starts " + formatRelative(campaign.StartsAt, now)
	}
	if campaign.EndsAt.IsZero() {
		return "ends: unknown"
	}
	return "ends " + formatRelative(campaign.EndsAt, now)
}

func formatRelative(at, now time.Time) string {
	if now.IsZero() {
		return at.Format("15:04 on 02 Jan")
	}
	if at.Before(now) {
		return "now"
	}

	remaining := at.Sub(now)
	if remaining < 24*time.Hour {
		hours := max(1, int(math.Ceil(remaining.Hours())))
		return fmt.Sprintf("in %d %s (%s)", hours, plural(hours, "hour"), at.Format("15:04"))
	}

	days := max(1, int(math.Ceil(remaining.Hours()/24)))
	return fmt.Sprintf("in %d %s (%s)", days, plural(days, "day"), at.Format("15:04 on 02 Jan"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(value))
}
