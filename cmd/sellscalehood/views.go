package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emad-siddiq/sellscalehood/internal/controller"
	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// Styles.
var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	symbolStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	upStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	suggestionHl    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	selectedRow     = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	fallbackBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" sellscalehood "))
	b.WriteString("  ")
	if m.coord.ActiveView() == controller.ViewDashboard {
		b.WriteString(symbolStyle.Render("[dashboard]"))
		b.WriteString(dimStyle.Render("  portfolio (ctrl+p)"))
	} else {
		b.WriteString(dimStyle.Render("dashboard (ctrl+p)  "))
		b.WriteString(symbolStyle.Render("[portfolio]"))
	}
	b.WriteString("\n\n")

	if m.coord.ActiveView() == controller.ViewDashboard {
		b.WriteString(m.viewDashboard())
	} else {
		b.WriteString(m.viewPortfolio())
	}
	return b.String()
}

func (m model) viewDashboard() string {
	var b strings.Builder

	// Search panel.
	b.WriteString(labelStyle.Render("Search"))
	b.WriteString("  ")
	b.WriteString(m.searchInput.View())
	if m.searchLoading {
		b.WriteString(dimStyle.Render("  fetching..."))
	}
	b.WriteString("\n")
	if m.searchNotice != "" {
		b.WriteString(noticeStyle.Render(m.searchNotice))
		b.WriteString("\n")
	}
	if m.haveQuote {
		b.WriteString(m.viewQuote())
	}
	b.WriteString("\n")

	// Trade form.
	b.WriteString(labelStyle.Render("Trade"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  ticker    %s\n", m.tickerInput.View()))
	for i, s := range m.suggestions {
		style := suggestionStyle
		if i == m.suggestionIdx {
			style = suggestionHl
		}
		b.WriteString("            " + style.Render(s) + "\n")
	}
	b.WriteString(fmt.Sprintf("  quantity  %s\n", m.qtyInput.View()))
	b.WriteString("  action    ")
	if m.action == domain.ActionBuy {
		b.WriteString(upStyle.Render("[buy]") + dimStyle.Render(" sell"))
	} else {
		b.WriteString(dimStyle.Render("buy ") + downStyle.Render("[sell]"))
	}
	b.WriteString(dimStyle.Render("  (ctrl+a toggles)"))
	b.WriteString("\n")
	if m.tradeLoading {
		b.WriteString(dimStyle.Render("  submitting...") + "\n")
	}
	if m.tradeError != "" {
		b.WriteString("  " + errorStyle.Render(m.tradeError) + "\n")
	}
	if m.tradeSuccess != "" {
		b.WriteString("  " + successStyle.Render(m.tradeSuccess) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: next field · enter: search/submit · ctrl+x: export chart · ctrl+c: quit"))
	return b.String()
}

func (m model) viewQuote() string {
	var b strings.Builder
	q := m.quote

	b.WriteString("\n  ")
	b.WriteString(symbolStyle.Render(q.Symbol))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(q.Name))
	if m.fallbackData {
		b.WriteString("  ")
		b.WriteString(fallbackBadge.Render(" FALLBACK DATA "))
	}
	b.WriteString("\n  ")
	b.WriteString(priceStyle.Render(fmt.Sprintf("$%.2f", q.Price)))

	change := q.PriceChange()
	pct := q.PriceChangePercent()
	dir := upStyle
	arrow := "▲"
	if !q.Up() {
		dir = downStyle
		arrow = "▼"
	}
	b.WriteString("  ")
	b.WriteString(dir.Render(fmt.Sprintf("%s %+.2f (%s)", arrow, change, formatPercent(pct))))
	b.WriteString("\n")

	if len(q.Historical) > 1 {
		b.WriteString("  ")
		b.WriteString(dir.Render(sparkline(q.Historical, 60)))
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s .. %s (%d closes)",
			q.Historical[0].Date, q.Historical[len(q.Historical)-1].Date, len(q.Historical))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewPortfolio() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Portfolio"))
	if m.portfolioLoading {
		b.WriteString(dimStyle.Render("  refreshing..."))
	}
	b.WriteString("\n")
	if m.portfolioNotice != "" {
		b.WriteString(noticeStyle.Render(m.portfolioNotice))
		b.WriteString("\n")
	}

	if len(m.holdings) == 0 {
		b.WriteString(dimStyle.Render("  (no holdings yet)"))
		b.WriteString("\n")
	} else if m.compact {
		b.WriteString(m.renderCompactPage())
	} else {
		b.WriteString(labelStyle.Render(holdingHeader(false)))
		b.WriteString("\n")
		b.WriteString(m.vp.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	mode := "compact"
	if !m.compact {
		mode = "expanded"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("view: %s (c toggles) · up/down: select · r: reload · q: quit", mode)))
	return b.String()
}

func (m model) renderCompactPage() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(holdingHeader(true)))
	b.WriteString("\n")

	start := m.page * compactPageSize
	end := start + compactPageSize
	if end > len(m.holdings) {
		end = len(m.holdings)
	}
	for _, h := range m.holdings[start:end] {
		b.WriteString(m.renderHoldingRow(h, true))
		b.WriteString("\n")
	}

	pages := (len(m.holdings) + compactPageSize - 1) / compactPageSize
	if pages > 1 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  page %d/%d (left/right)", m.page+1, pages)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderHoldingRows renders every holding for the expanded viewport.
func (m model) renderHoldingRows(holdings []domain.Holding) string {
	var b strings.Builder
	for _, h := range holdings {
		b.WriteString(m.renderHoldingRow(h, false))
		b.WriteString("\n")
	}
	return b.String()
}

func holdingHeader(compact bool) string {
	if compact {
		return fmt.Sprintf("  %-8s %10s", "TICKER", "QTY")
	}
	return fmt.Sprintf("  %-8s %10s %12s %14s", "TICKER", "QTY", "PRICE", "VALUE")
}

func (m model) renderHoldingRow(h domain.Holding, compact bool) string {
	var row string
	if compact {
		row = fmt.Sprintf("  %-8s %10d", h.Ticker, h.Quantity)
	} else {
		row = fmt.Sprintf("  %-8s %10d %12.2f %14.2f", h.Ticker, h.Quantity, h.CurrentPrice, h.TotalValue)
	}
	if h.ID == m.selectedID && m.selectedID != 0 {
		return selectedRow.Render(row)
	}
	return row
}

// formatPercent renders the relative change, showing NaN as "n/a" instead
// of crashing on a zero baseline.
func formatPercent(pct float64) string {
	if math.IsNaN(pct) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

// sparkline maps the close history onto a row of block runes.
func sparkline(points []domain.ClosePoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	n := len(points)
	if n > width {
		n = width
	}
	// Sample the most recent n points.
	sampled := points[len(points)-n:]

	lo, hi := sampled[0].Close, sampled[0].Close
	for _, p := range sampled {
		if p.Close < lo {
			lo = p.Close
		}
		if p.Close > hi {
			hi = p.Close
		}
	}

	var b strings.Builder
	for _, p := range sampled {
		idx := 0
		if hi > lo {
			idx = int((p.Close - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
