package conversation

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/slogx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/uuidx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// EventKind labels an observer notification.
type EventKind string

const (
	// EventTruncated reports entries dropped by the max-entry cap.
	EventTruncated EventKind = "truncated"
	// EventSummarized reports entries collapsed into a summary.
	EventSummarized EventKind = "summarized"
)

// Event describes one history-reshaping action taken by the store.
type Event struct {
	Kind    EventKind
	Entries int
}

// Observer receives store events. It replaces any ambient event bus: a store
// without an observer is silent.
type Observer func(Event)

// Summarizer collapses a span of entries into one synthetic system entry.
type Summarizer func([]messages.Entry) messages.Entry

const (
	defaultMaxEntries     = 200
	defaultTokenThreshold = 8000
)

// Store owns one session's conversation history.
type Store struct {
	id             uuid.UUID
	entries        []messages.Entry
	totalTokens    int
	maxEntries     int
	tokenThreshold int
	estimator      tokens.Estimator
	observer       Observer
	summarizer     Summarizer
	metadata       map[string]any
	created        strfmt.DateTime
	updated        strfmt.DateTime
}

// Option configures a Store during construction.
type Option = opts.Option[Store]

// WithMaxEntries caps the number of retained entries; the oldest non-system
// entries are dropped once the cap is exceeded.
func WithMaxEntries(n int) Option {
	return opts.Type[Store](func(s *Store) error {
		if n <= 0 {
			return fmt.Errorf("max entries must be positive, got %d", n)
		}
		s.maxEntries = n
		return nil
	})
}

// WithTokenThreshold sets the running-total token count that triggers
// summarization of older history.
func WithTokenThreshold(n int) Option {
	return opts.Type[Store](func(s *Store) error {
		if n <= 0 {
			return fmt.Errorf("token threshold must be positive, got %d", n)
		}
		s.tokenThreshold = n
		return nil
	})
}

// WithEstimator substitutes the token estimator.
func WithEstimator(est tokens.Estimator) Option {
	return opts.Type[Store](func(s *Store) error {
		s.estimator = est
		return nil
	})
}

// WithObserver registers a callback for truncation/summarization events.
func WithObserver(fn Observer) Option {
	return opts.Type[Store](func(s *Store) error {
		s.observer = fn
		return nil
	})
}

// WithSummarizer substitutes the summarizer used when the token threshold is
// crossed, typically one of the context-window strategies.
func WithSummarizer(fn Summarizer) Option {
	return opts.Type[Store](func(s *Store) error {
		s.summarizer = fn
		return nil
	})
}

// New creates an empty store.
func New(options ...Option) (*Store, error) {
	now := strfmt.DateTime(time.Now())
	s := &Store{
		id:             uuidx.New(),
		maxEntries:     defaultMaxEntries,
		tokenThreshold: defaultTokenThreshold,
		estimator:      tokens.CharEstimator{},
		metadata:       make(map[string]any),
		created:        now,
		updated:        now,
	}
	if err := opts.Apply(s, options); err != nil {
		return nil, err
	}
	if s.summarizer == nil {
		s.summarizer = defaultSummarizer(s.estimator)
	}
	return s, nil
}

// ID returns the store's unique identifier.
func (s *Store) ID() uuid.UUID { return s.id }

// Len returns the number of retained entries.
func (s *Store) Len() int { return len(s.entries) }

// TotalTokens returns the running estimated token total.
func (s *Store) TotalTokens() int { return s.totalTokens }

// Metadata returns the store's free-form metadata map.
func (s *Store) Metadata() map[string]any { return s.metadata }

// Append creates an entry from role and content, computes its token count,
// adds it to history, and enforces the entry and token caps. The created
// entry is returned with its id and cached token count filled in.
func (s *Store) Append(role messages.Role, content string, calls []messages.ToolCallRecord, metadata map[string]any) messages.Entry {
	entry := messages.NewEntry(role, content)
	entry.ToolCalls = calls
	entry.Metadata = metadata
	entry.Tokens = s.estimator.EstimateEntries([]messages.Entry{entry})

	s.entries = append(s.entries, entry)
	s.totalTokens += entry.Tokens
	s.touch()

	s.enforceEntryCap()
	s.enforceTokenThreshold()
	return entry
}

// RecordToolCall attaches a call record to its parent entry and updates the
// token accounting. It reports whether the parent entry was found.
func (s *Store) RecordToolCall(entryID string, call messages.ToolCallRecord) bool {
	for i := range s.entries {
		if s.entries[i].ID != entryID {
			continue
		}
		s.entries[i].ToolCalls = append(s.entries[i].ToolCalls, call)
		s.reestimate(i)
		s.touch()
		return true
	}
	return false
}

// CompleteToolCall back-fills the result or error of a previously recorded
// call. Unknown ids are ignored without error: late or duplicate completions
// from the dispatch layer are expected and must never break the turn loop.
func (s *Store) CompleteToolCall(callID string, result any, callErr string, duration time.Duration) {
	for i := range s.entries {
		for j := range s.entries[i].ToolCalls {
			rec := &s.entries[i].ToolCalls[j]
			if rec.ID != callID || rec.Completed() {
				continue
			}
			rec.Result = result
			rec.Error = callErr
			rec.Duration = duration
			s.reestimate(i)
			s.touch()
			return
		}
	}
}

// History returns a copy of the full entry list.
func (s *Store) History() []messages.Entry {
	return slices.Clone(s.entries)
}

// Tail returns a copy of the most recent n entries.
func (s *Store) Tail(n int) []messages.Entry {
	if n <= 0 || len(s.entries) == 0 {
		return nil
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return slices.Clone(s.entries[len(s.entries)-n:])
}

// WithinBudget walks history from the newest entry backward, collecting
// entries until adding one more would exceed the token budget, and returns
// the collected entries in chronological order.
func (s *Store) WithinBudget(budget int) []messages.Entry {
	var picked []messages.Entry
	used := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		cost := s.entries[i].Tokens
		if used+cost > budget {
			break
		}
		used += cost
		picked = append(picked, s.entries[i])
	}
	slices.Reverse(picked)
	return picked
}

// Summary produces a terse textual description of the history, counts per
// role and the set of tools used, for logging and debugging. It is not
// meant to be fed back to the model.
func (s *Store) Summary() string {
	counts := map[messages.Role]int{}
	toolSet := map[string]struct{}{}
	for _, e := range s.entries {
		counts[e.Role]++
		for _, c := range e.ToolCalls {
			toolSet[c.ToolName] = struct{}{}
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d entries (%d tokens)", len(s.entries), s.totalTokens)
	for _, role := range []messages.Role{messages.RoleSystem, messages.RoleUser, messages.RoleAssistant, messages.RoleTool} {
		if counts[role] > 0 {
			fmt.Fprintf(&sb, ", %d %s", counts[role], role)
		}
	}
	if len(toolSet) > 0 {
		names := make([]string, 0, len(toolSet))
		for n := range toolSet {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "; tools: %s", strings.Join(names, ", "))
	}
	return sb.String()
}

// Clear removes all entries and resets the token total. Metadata and the
// store id survive.
func (s *Store) Clear() {
	s.entries = nil
	s.totalTokens = 0
	s.touch()
}

// Snapshot is the serializable form of a store, round-tripped by an external
// persistence layer. It carries no derived window state.
type Snapshot struct {
	ID          string           `json:"id"`
	Entries     []messages.Entry `json:"entries"`
	TotalTokens int              `json:"total_tokens"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	Created     strfmt.DateTime  `json:"created"`
	Updated     strfmt.DateTime  `json:"updated"`
}

// Export captures the store as a deep-copied snapshot.
func (s *Store) Export() (Snapshot, error) {
	snap := Snapshot{
		ID:          s.id.String(),
		Entries:     s.entries,
		TotalTokens: s.totalTokens,
		Metadata:    s.metadata,
		Created:     s.created,
		Updated:     s.updated,
	}
	// Round-trip through JSON so the snapshot shares no memory with the
	// live store.
	b, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export conversation: %w", err)
	}
	var out Snapshot
	if err := json.Unmarshal(b, &out); err != nil {
		return Snapshot{}, fmt.Errorf("export conversation: %w", err)
	}
	return out, nil
}

// Import replaces the store's state with the snapshot's. Token totals are
// recomputed with the store's own estimator rather than trusted from the
// snapshot.
func (s *Store) Import(snap Snapshot) error {
	id, err := uuid.Parse(snap.ID)
	if err != nil {
		return fmt.Errorf("import conversation: invalid id: %w", err)
	}
	s.id = id
	s.entries = slices.Clone(snap.Entries)
	s.metadata = snap.Metadata
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}
	s.created = snap.Created
	s.updated = snap.Updated
	s.totalTokens = 0
	for i := range s.entries {
		s.entries[i].Tokens = s.estimator.EstimateEntries(s.entries[i : i+1])
		s.totalTokens += s.entries[i].Tokens
	}
	return nil
}

func (s *Store) touch() {
	s.updated = strfmt.DateTime(time.Now())
}

// reestimate recomputes one entry's cached token count and folds the delta
// into the running total.
func (s *Store) reestimate(i int) {
	old := s.entries[i].Tokens
	s.entries[i].Tokens = s.estimator.EstimateEntries(s.entries[i : i+1])
	s.totalTokens += s.entries[i].Tokens - old
	if s.totalTokens < 0 {
		s.totalTokens = 0
	}
}

// enforceEntryCap drops the oldest non-system entries while over the cap.
// System entries are only dropped when nothing else remains to drop.
func (s *Store) enforceEntryCap() {
	dropped := 0
	for len(s.entries) > s.maxEntries {
		idx := -1
		for i, e := range s.entries {
			if e.Role != messages.RoleSystem {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = 0
		}
		s.totalTokens -= s.entries[idx].Tokens
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		dropped++
	}
	if s.totalTokens < 0 {
		s.totalTokens = 0
	}
	if dropped > 0 {
		slog.Debug("conversation truncated",
			slogx.Stringer("conversation", s.id),
			slog.Int("dropped", dropped),
		)
		if s.observer != nil {
			s.observer(Event{Kind: EventTruncated, Entries: dropped})
		}
	}
}

// enforceTokenThreshold collapses the older 70% of non-system history into a
// single synthetic system summary once the running total crosses the
// threshold. Fewer than four non-system entries are never summarized.
func (s *Store) enforceTokenThreshold() {
	if s.totalTokens <= s.tokenThreshold {
		return
	}

	var systems, rest []messages.Entry
	for _, e := range s.entries {
		if e.Role == messages.RoleSystem {
			systems = append(systems, e)
		} else {
			rest = append(rest, e)
		}
	}
	if len(rest) < 4 {
		return
	}

	split := len(rest) * 7 / 10
	old, recent := rest[:split], rest[split:]

	summary := s.summarizer(old)
	summary.Tokens = s.estimator.EstimateEntries([]messages.Entry{summary})

	rebuilt := make([]messages.Entry, 0, len(systems)+1+len(recent))
	rebuilt = append(rebuilt, systems...)
	rebuilt = append(rebuilt, summary)
	rebuilt = append(rebuilt, recent...)
	s.entries = rebuilt
	s.totalTokens = s.estimator.EstimateEntries(s.entries)

	slog.Debug("conversation summarized",
		slogx.Stringer("conversation", s.id),
		slog.Int("condensed", len(old)),
		slog.Int("tokens", s.totalTokens),
	)
	if s.observer != nil {
		s.observer(Event{Kind: EventSummarized, Entries: len(old)})
	}
}

// defaultSummarizer produces a compact synthetic system entry naming the
// collapsed span's size and the tools it used.
func defaultSummarizer(tokens.Estimator) Summarizer {
	return func(old []messages.Entry) messages.Entry {
		toolSet := map[string]struct{}{}
		for _, e := range old {
			for _, c := range e.ToolCalls {
				toolSet[c.ToolName] = struct{}{}
			}
		}
		content := fmt.Sprintf("[Conversation summary] %d earlier messages were condensed.", len(old))
		if len(toolSet) > 0 {
			names := make([]string, 0, len(toolSet))
			for n := range toolSet {
				names = append(names, n)
			}
			sort.Strings(names)
			content += " Tools used: " + strings.Join(names, ", ") + "."
		}
		return messages.NewEntry(messages.RoleSystem, content)
	}
}
