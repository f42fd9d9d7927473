package ui

import (
	"fmt"
	"strings"
	"time"

	"querydeck/internal/telemetry"
)

// debugOverlay renders fetch-pipeline stats and recent telemetry events.
// Pure function with no side effects. Returns a placeholder if no ring is
// attached.
func debugOverlay(ring *telemetry.Ring, width, height int) string {
	if ring == nil {
		return HelpStyle.Render("Telemetry disabled.")
	}

	stats := ring.Stats()
	recent := ring.Last(15)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Fetch Pipeline"))
	lines = append(lines, fmt.Sprintf("  Issued:      %d", stats[telemetry.KindFetchStart]))
	lines = append(lines, fmt.Sprintf("  Accepted:    %d ok, %d failed",
		stats[telemetry.KindFetchAccept], stats[telemetry.KindFetchError]))
	lines = append(lines, fmt.Sprintf("  Superseded:  %d", stats[telemetry.KindFetchSupersede]))
	lines = append(lines, fmt.Sprintf("  Exports:     %d", stats[telemetry.KindExportWrite]))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		age := formatAge(time.Since(e.Time))
		line := fmt.Sprintf("  %6s  %-16s", age, string(e.Kind))
		if e.Gen > 0 {
			line += fmt.Sprintf("  gen:%d", e.Gen)
		}
		if e.Page > 0 {
			line += fmt.Sprintf("  p%d", e.Page)
		}
		if e.Filter != "" {
			line += "  " + e.Filter
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	style := DebugPanel
	if width > 2 {
		style = style.Width(min(width-2, 80))
	}
	return style.Render(strings.Join(lines, "\n")) + "\n"
}

// formatAge renders a duration compactly ("3s", "2m", "1h").
func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
