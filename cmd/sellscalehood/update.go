package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emad-siddiq/sellscalehood/internal/chart"
	"github.com/emad-siddiq/sellscalehood/internal/controller"
	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/pkg/sellscale"
)

// Messages.
type quoteLoadedMsg struct {
	snap controller.Snapshot
	err  error
}

type portfolioLoadedMsg struct {
	holdings []domain.Holding
	epoch    int
	err      error
}

type tradeDoneMsg struct {
	result *domain.TradeResult
	err    error
}

type chartSavedMsg struct {
	path string
	err  error
}

func (m model) searchCmd(ticker string) tea.Cmd {
	search := m.search
	return func() tea.Msg {
		snap, err := search.Search(context.Background(), ticker)
		return quoteLoadedMsg{snap: snap, err: err}
	}
}

func (m model) loadPortfolioCmd(epoch int) tea.Cmd {
	portfolio := m.portfolio
	return func() tea.Msg {
		holdings, err := portfolio.Load(context.Background())
		return portfolioLoadedMsg{holdings: holdings, epoch: epoch, err: err}
	}
}

func (m model) submitTradeCmd(order domain.TradeOrder) tea.Cmd {
	trade := m.trade
	return func() tea.Msg {
		result, err := trade.Submit(context.Background(), order)
		return tradeDoneMsg{result: result, err: err}
	}
}

func (m model) saveChartCmd(q domain.StockQuote) tea.Cmd {
	return func() tea.Msg {
		png, err := chart.RenderHistory(&q)
		if err != nil {
			return chartSavedMsg{err: err}
		}
		path := fmt.Sprintf("sellscalehood-%s-%s.png", q.Symbol, time.Now().Format("2006-01-02"))
		if err := os.WriteFile(path, png, 0644); err != nil {
			return chartSavedMsg{err: err}
		}
		return chartSavedMsg{path: path}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 8
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.vp.Width = m.width
			m.vp.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case quoteLoadedMsg:
		if msg.snap.Stale {
			// Superseded by a newer search; its own result will land.
			return m, nil
		}
		m.searchLoading = false
		if msg.err != nil {
			// Only the empty-ticker rejection can surface here.
			m.searchNotice = "Enter a ticker symbol to search"
			return m, nil
		}
		m.quote = msg.snap.Quote
		m.haveQuote = true
		m.fallbackData = msg.snap.Fallback
		m.searchNotice = msg.snap.Warning
		return m, nil

	case tradeDoneMsg:
		m.tradeLoading = false
		if msg.err != nil {
			m.tradeSuccess = ""
			var apiErr *sellscale.APIError
			if errors.As(msg.err, &apiErr) {
				m.tradeError = apiErr.Message
			} else {
				m.tradeError = "Trade failed. Please try again."
			}
			// Form values stay for correction.
			return m, nil
		}
		m.tradeError = ""
		m.tradeSuccess = msg.result.Message
		m.tickerInput.SetValue("")
		m.qtyInput.SetValue("")
		m.action = domain.ActionBuy
		m.suggestions = nil
		m.suggestionIdx = -1
		return m, m.chasePortfolioEpoch()

	case portfolioLoadedMsg:
		m.portfolioLoading = false
		if msg.err != nil {
			// Previously displayed holdings stay in place.
			m.portfolioNotice = "Couldn't refresh portfolio; showing last known holdings"
			m.holdings = msg.holdings
			m.refreshViewport()
			return m, nil
		}
		m.portfolioNotice = ""
		m.holdings = msg.holdings
		m.loadedEpoch = msg.epoch
		m.clampPortfolioCursor()
		m.refreshViewport()
		// Converge if more trades completed while this fetch was in flight.
		return m, m.chasePortfolioEpoch()

	case chartSavedMsg:
		if msg.err != nil {
			m.searchNotice = fmt.Sprintf("Chart export failed: %v", msg.err)
		} else {
			m.searchNotice = "Chart saved to " + msg.path
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// chasePortfolioEpoch starts a portfolio load when the displayed epoch is
// behind the coordinator and no fetch is already in flight.
func (m *model) chasePortfolioEpoch() tea.Cmd {
	epoch := m.coord.Epoch()
	if epoch == m.loadedEpoch || m.portfolioLoading {
		return nil
	}
	m.portfolioLoading = true
	return m.loadPortfolioCmd(epoch)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+p":
		if m.coord.ActiveView() == controller.ViewDashboard {
			m.coord.SetActiveView(controller.ViewPortfolio)
			m.blurInputs()
		} else {
			m.coord.SetActiveView(controller.ViewDashboard)
			m.applyFocus()
		}
		m.refreshViewport()
		return m, nil
	}

	if m.coord.ActiveView() == controller.ViewPortfolio {
		return m.handlePortfolioKey(key, msg)
	}
	return m.handleDashboardKey(key, msg)
}

func (m model) handleDashboardKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "tab":
		m.focus = (m.focus + 1) % 3
		m.suggestionIdx = -1
		m.applyFocus()
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		m.suggestionIdx = -1
		m.applyFocus()
		return m, nil
	case "ctrl+a":
		if m.action == domain.ActionBuy {
			m.action = domain.ActionSell
		} else {
			m.action = domain.ActionBuy
		}
		return m, nil
	case "ctrl+x":
		if m.haveQuote {
			return m, m.saveChartCmd(m.quote)
		}
		return m, nil
	case "up", "down":
		if m.focus == focusTicker && len(m.suggestions) > 0 {
			if key == "down" && m.suggestionIdx < len(m.suggestions)-1 {
				m.suggestionIdx++
			} else if key == "up" && m.suggestionIdx > -1 {
				m.suggestionIdx--
			}
			return m, nil
		}
	case "enter":
		return m.handleDashboardEnter()
	}

	return m.updateInputs(msg)
}

func (m model) handleDashboardEnter() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusSearch:
		ticker := strings.TrimSpace(m.searchInput.Value())
		if ticker == "" {
			// Rejected at the input boundary; no network call.
			m.searchNotice = "Enter a ticker symbol to search"
			return m, nil
		}
		m.searchLoading = true
		m.searchNotice = ""
		return m, m.searchCmd(ticker)

	case focusTicker:
		if m.suggestionIdx >= 0 && m.suggestionIdx < len(m.suggestions) {
			m.tickerInput.SetValue(m.trade.Select(m.suggestions[m.suggestionIdx]))
			m.tickerInput.CursorEnd()
			m.suggestions = nil
			m.suggestionIdx = -1
			return m, nil
		}
		return m.submitTrade()

	default:
		return m.submitTrade()
	}
}

func (m model) submitTrade() (tea.Model, tea.Cmd) {
	order := domain.TradeOrder{
		Ticker:   m.tickerInput.Value(),
		Quantity: m.qtyInput.Value(),
		Action:   m.action,
	}
	// Field validation happens before any network traffic; a violation
	// becomes the active error without a round trip.
	if err := m.trade.Validate(order); err != nil {
		m.tradeError = err.Error()
		m.tradeSuccess = ""
		return m, nil
	}
	m.tradeLoading = true
	m.tradeError = ""
	m.tradeSuccess = ""
	return m, m.submitTradeCmd(order)
}

func (m model) handlePortfolioKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "c":
		m.compact = !m.compact
		m.page = 0
		m.refreshViewport()
		return m, nil
	case "r":
		m.portfolioLoading = true
		return m, m.loadPortfolioCmd(m.coord.Epoch())
	case "left":
		if m.compact && m.page > 0 {
			m.page--
		}
		return m, nil
	case "right":
		if m.compact && (m.page+1)*compactPageSize < len(m.holdings) {
			m.page++
		}
		return m, nil
	case "up", "down":
		m.moveSelection(key == "down")
		m.refreshViewport()
		return m, nil
	}

	if !m.compact && m.ready {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveSelection moves the single-row highlight. Selecting a row clears the
// previous selection implicitly.
func (m *model) moveSelection(down bool) {
	if len(m.holdings) == 0 {
		m.selectedID = 0
		return
	}
	idx := m.selectedIndex()
	if idx == -1 {
		idx = 0
	} else if down && idx < len(m.holdings)-1 {
		idx++
	} else if !down && idx > 0 {
		idx--
	}
	m.selectedID = m.holdings[idx].ID
	if m.compact {
		m.page = idx / compactPageSize
	}
}

func (m *model) selectedIndex() int {
	for i, h := range m.holdings {
		if h.ID == m.selectedID {
			return i
		}
	}
	return -1
}

// clampPortfolioCursor drops the selection and pagination back into range
// after a refresh changes the holdings.
func (m *model) clampPortfolioCursor() {
	if m.selectedIndex() == -1 {
		m.selectedID = 0
	}
	maxPage := 0
	if len(m.holdings) > 0 {
		maxPage = (len(m.holdings) - 1) / compactPageSize
	}
	if m.page > maxPage {
		m.page = maxPage
	}
}

func (m *model) refreshViewport() {
	if m.ready && !m.compact {
		m.vp.SetContent(m.renderHoldingRows(m.holdings))
	}
}

func (m *model) applyFocus() {
	m.searchInput.Blur()
	m.tickerInput.Blur()
	m.qtyInput.Blur()
	switch m.focus {
	case focusSearch:
		m.searchInput.Focus()
	case focusTicker:
		m.tickerInput.Focus()
	case focusQuantity:
		m.qtyInput.Focus()
	}
}

func (m *model) blurInputs() {
	m.searchInput.Blur()
	m.tickerInput.Blur()
	m.qtyInput.Blur()
}

// updateInputs routes remaining messages to the focused text input and
// recomputes autocomplete on ticker keystrokes.
func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case focusTicker:
		before := m.tickerInput.Value()
		m.tickerInput, cmd = m.tickerInput.Update(msg)
		if m.tickerInput.Value() != before {
			m.suggestions = m.trade.Autocomplete(m.tickerInput.Value())
			m.suggestionIdx = -1
		}
	case focusQuantity:
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	}
	return m, cmd
}
