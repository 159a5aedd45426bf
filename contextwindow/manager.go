package contextwindow

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fogfish/opts"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// DefaultBudget is used when no model family matches: small enough to be
// safe on anything a host is likely to run.
const DefaultBudget = 4096

// modelBudgets maps lowercase model-family fragments to context sizes.
// Lookup picks the longest fragment contained in the model name, so
// "llama3.1:8b-instruct" resolves through "llama3.1", not "llama3".
var modelBudgets = map[string]int{
	"llama2":    4096,
	"llama3":    8192,
	"llama3.1":  131072,
	"llama3.2":  131072,
	"codellama": 16384,
	"mistral":   8192,
	"mixtral":   32768,
	"qwen2":     32768,
	"gemma":     8192,
	"phi3":      4096,
	"deepseek":  65536,
	"gpt-3.5":   16385,
	"gpt-4":     8192,
	"gpt-4o":    128000,
	"claude":    200000,
}

// Window is the transient result of budget enforcement: a message list, its
// estimated token count, the budget it was fitted to, and the model name.
// Windows are recomputed every turn and never persisted.
type Window struct {
	Entries []messages.Entry
	Tokens  int
	Budget  int
	Model   string
}

// Stats summarizes a window for diagnostics.
type Stats struct {
	Utilization   float64 // percent of budget in use
	Messages      int
	AvgTokens     float64
	RemainingToks int
}

// Manager enforces per-model token budgets over message lists.
type Manager struct {
	estimator  tokens.Estimator
	strategies []Strategy
	active     string
}

// Option configures a Manager.
type Option = opts.Option[Manager]

// WithEstimator substitutes the token estimator used for sizing and by all
// strategies.
func WithEstimator(est tokens.Estimator) Option {
	return opts.Type[Manager](func(m *Manager) error {
		m.estimator = est
		return nil
	})
}

// WithStrategy selects the active truncation strategy by name.
func WithStrategy(name string) Option {
	return opts.Type[Manager](func(m *Manager) error {
		m.active = name
		return nil
	})
}

// NewManager builds a manager with the built-in strategies registered in
// their fixed order: sliding, summarize, importance, hybrid.
func NewManager(options ...Option) (*Manager, error) {
	m := &Manager{
		estimator: tokens.CharEstimator{},
		active:    StrategySliding,
	}
	if err := opts.Apply(m, options); err != nil {
		return nil, err
	}
	sliding := &slidingStrategy{est: m.estimator}
	importance := &importanceStrategy{est: m.estimator}
	m.strategies = []Strategy{
		sliding,
		&summarizeStrategy{est: m.estimator},
		importance,
		&hybridStrategy{est: m.estimator, sliding: sliding, importance: importance},
	}
	if _, ok := m.StrategyByName(m.active); !ok {
		return nil, fmt.Errorf("unknown context strategy %q", m.active)
	}
	return m, nil
}

// StrategyByName returns a registered strategy.
func (m *Manager) StrategyByName(name string) (Strategy, bool) {
	for _, s := range m.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// BudgetFor resolves the token budget for a model name via longest-substring
// match against the known model families, failing open to DefaultBudget.
func (m *Manager) BudgetFor(model string) int {
	lowered := strings.ToLower(model)
	best, bestLen := DefaultBudget, 0
	for fragment, budget := range modelBudgets {
		if strings.Contains(lowered, fragment) && len(fragment) > bestLen {
			best, bestLen = budget, len(fragment)
		}
	}
	return best
}

// ManageWindow fits entries to the model's budget minus reservedTokens. If
// the estimated size already fits, the input is returned untouched in the
// window; otherwise the active strategy reshapes it.
func (m *Manager) ManageWindow(entries []messages.Entry, model string, reservedTokens int) (Window, error) {
	budget := m.BudgetFor(model) - reservedTokens
	if budget <= 0 {
		return Window{}, fmt.Errorf("reserved tokens %d consume the whole %s budget", reservedTokens, model)
	}

	win := Window{
		Entries: entries,
		Tokens:  m.estimator.EstimateEntries(entries),
		Budget:  budget,
		Model:   model,
	}
	if win.Tokens <= budget {
		return win, nil
	}

	strategy, _ := m.StrategyByName(m.active)
	reshaped := strategy.Truncate(win)
	slog.Debug("context window reshaped",
		slog.String("strategy", strategy.Name()),
		slog.String("model", model),
		slog.Int("before", len(entries)),
		slog.Int("after", len(reshaped)),
	)
	win.Entries = reshaped
	win.Tokens = m.estimator.EstimateEntries(reshaped)
	return win, nil
}

// CanFitMessage reports whether one more entry fits in the window's
// remaining budget.
func (m *Manager) CanFitMessage(w Window, entry messages.Entry) bool {
	cost := m.estimator.EstimateEntries([]messages.Entry{entry})
	return w.Tokens+cost <= w.Budget
}

// Statistics summarizes a window's budget usage.
func (m *Manager) Statistics(w Window) Stats {
	stats := Stats{
		Messages:      len(w.Entries),
		RemainingToks: w.Budget - w.Tokens,
	}
	if w.Budget > 0 {
		stats.Utilization = float64(w.Tokens) / float64(w.Budget) * 100
	}
	if len(w.Entries) > 0 {
		stats.AvgTokens = float64(w.Tokens) / float64(len(w.Entries))
	}
	return stats
}
