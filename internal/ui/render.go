package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"querydeck/internal/api"
	"querydeck/internal/browse"
)

// RenderList renders the rows of the current page. The previous page's
// rows stay on screen while a fetch is in flight; only the status bar
// shows the load.
func RenderList(st browse.State, cursor, width, height int, dateFormat string) string {
	if st.Result == nil {
		if st.Loading {
			return HelpStyle.Render("Loading search requests...")
		}
		return HelpStyle.Render("No data yet. Press 'r' to load.")
	}
	if st.Result.TotalCount == 0 {
		return HelpStyle.Render("No search requests match this view.")
	}

	items := st.Result.Items
	available := height
	if available < 1 {
		available = 1
	}

	// Scroll so the cursor stays visible on very short terminals.
	offset := 0
	if cursor >= available {
		offset = cursor - available + 1
	}

	var b strings.Builder
	rendered := 0
	for i := offset; i < len(items) && rendered < available; i++ {
		b.WriteString(renderRow(items[i], i == cursor, width, dateFormat))
		b.WriteString("\n")
		rendered++
	}
	return b.String()
}

// renderRow renders a single search request line.
func renderRow(rec api.SearchRequest, selected bool, width int, dateFormat string) string {
	badge := statusBadge(rec.Status)
	badgeWidth := lipgloss.Width(badge)

	meta := rowMeta(rec, dateFormat)
	metaWidth := utf8.RuneCountInString(meta)

	queryWidth := width - badgeWidth - metaWidth - 6
	if queryWidth < 16 {
		queryWidth = 16
	}
	query := truncateRunes(rec.Query, queryWidth)

	rowStyle := NormalRow
	if selected {
		rowStyle = SelectedRow
	}

	return fmt.Sprintf("%s%s %s", badge, rowStyle.Render(query), MutedText.Render(meta))
}

// rowMeta builds the right-hand column: creation time, duration, and an
// export marker for finished requests.
func rowMeta(rec api.SearchRequest, dateFormat string) string {
	created := "—"
	if rec.CreatedAt != nil {
		created = rec.CreatedAt.Format(dateFormat)
	}

	dur := ""
	if rec.DurationMS > 0 {
		dur = " · " + rec.Elapsed().String()
	}

	marker := ""
	if rec.Status == api.StatusFinished && len(rec.Result) > 0 {
		marker = " ⇣"
	}

	return created + dur + marker
}

func statusBadge(s api.Status) string {
	color, ok := statusColors[s]
	if !ok {
		color = colorMuted
	}
	return StatusBadge.Foreground(color).Render(string(s))
}

// RenderStatusBar renders the bottom bar: filter badge, page position,
// total count, loading indicator, and key hints.
func RenderStatusBar(st browse.State, spinnerView string, width int) string {
	var left strings.Builder

	filter := "all"
	if st.Filter.Concrete() {
		filter = string(st.Filter)
	}
	left.WriteString(FilterBadge.Render(filter))
	left.WriteString(" ")

	if st.Result != nil {
		left.WriteString(fmt.Sprintf("page %d · %d total", st.Page, st.Result.TotalCount))
		if st.Result.HasPrevious {
			left.WriteString(" ‹")
		}
		if st.Result.HasNext {
			left.WriteString(" ›")
		}
	} else {
		left.WriteString(fmt.Sprintf("page %d", st.Page))
	}

	if st.Loading {
		left.WriteString(" " + spinnerView)
	}

	hints := StatusBarText.Render(" f:filter h/l:page r:refresh x:export s:pin q:quit")
	return StatusBar.Width(width).Render(left.String() + hints)
}

// truncateRunes shortens a string to maxLen runes, adding "..." if truncated.
func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
