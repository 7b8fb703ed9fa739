// Command sellscalehood is the terminal client: search a ticker and view
// its price history, submit buy/sell orders, and watch the portfolio table
// refresh after each completed trade.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emad-siddiq/sellscalehood/internal/config"
	"github.com/emad-siddiq/sellscalehood/internal/controller"
	"github.com/emad-siddiq/sellscalehood/internal/domain"
	"github.com/emad-siddiq/sellscalehood/internal/fallback"
	"github.com/emad-siddiq/sellscalehood/internal/universe"
	"github.com/emad-siddiq/sellscalehood/internal/util"
	"github.com/emad-siddiq/sellscalehood/pkg/sellscale"
)

// compactPageSize is how many holdings the compact portfolio mode shows
// per page.
const compactPageSize = 5

// Dashboard focus targets, cycled with tab.
const (
	focusSearch = iota
	focusTicker
	focusQuantity
)

// model is the root bubbletea model: the coordinator plus the three view
// controllers and their per-view UI state.
type model struct {
	coord     *controller.Coordinator
	search    *controller.SearchController
	trade     *controller.TradeController
	portfolio *controller.PortfolioController
	logger    *slog.Logger

	width, height int
	ready         bool
	focus         int

	// Search view state.
	searchInput   textinput.Model
	quote         domain.StockQuote
	haveQuote     bool
	fallbackData  bool
	searchLoading bool
	searchNotice  string

	// Trade form state.
	tickerInput   textinput.Model
	qtyInput      textinput.Model
	action        domain.TradeAction
	suggestions   []string
	suggestionIdx int
	tradeLoading  bool
	tradeError    string
	tradeSuccess  string

	// Portfolio view state.
	holdings         []domain.Holding
	portfolioLoading bool
	portfolioNotice  string
	loadedEpoch      int
	compact          bool
	page             int
	selectedID       int64
	vp               viewport.Model
}

func initialModel(coord *controller.Coordinator, search *controller.SearchController, trade *controller.TradeController, portfolio *controller.PortfolioController, logger *slog.Logger) model {
	searchInput := textinput.New()
	searchInput.Placeholder = "ticker, e.g. AAPL"
	searchInput.CharLimit = 8
	searchInput.Width = 16
	searchInput.SetValue(controller.DefaultTicker)
	searchInput.Focus()

	tickerInput := textinput.New()
	tickerInput.Placeholder = "ticker"
	tickerInput.CharLimit = 8
	tickerInput.Width = 16

	qtyInput := textinput.New()
	qtyInput.Placeholder = "quantity"
	qtyInput.CharLimit = 9
	qtyInput.Width = 16

	return model{
		coord:         coord,
		search:        search,
		trade:         trade,
		portfolio:     portfolio,
		logger:        logger,
		searchInput:   searchInput,
		tickerInput:   tickerInput,
		qtyInput:      qtyInput,
		action:        domain.ActionBuy,
		suggestionIdx: -1,
		loadedEpoch:   -1, // mount counts as an epoch change
		compact:       true,
	}
}

// Init mounts the three views: the default search and the initial
// portfolio load run independently.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.searchCmd(controller.DefaultTicker),
		m.loadPortfolioCmd(m.coord.Epoch()),
		textinput.Blink,
	)
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (default: built-in config)")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = os.Getenv("SELLSCALEHOOD_CONFIG")
	}

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	logPath := fmt.Sprintf("/tmp/sellscalehood-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level, "text")

	u := universe.Default()
	if cfg.Tickers.CSVPath != "" {
		u, err = universe.LoadCSV(cfg.Tickers.CSVPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading ticker universe: %v\n", err)
			os.Exit(1)
		}
	}
	logger.Info("ticker universe loaded", "symbols", u.Len())

	client := sellscale.NewClient(cfg.Client.BaseURL)
	coord := controller.NewCoordinator()
	search := controller.NewSearchController(client, fallback.New(), logger)
	trade := controller.NewTradeController(client, u, coord, logger)
	portfolio := controller.NewPortfolioController(client, controller.NewRandomPricer(), logger)

	p := tea.NewProgram(
		initialModel(coord, search, trade, portfolio, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
