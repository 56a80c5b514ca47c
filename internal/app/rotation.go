// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/platform/metrics"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

// Storage keys for the persisted rotation state. Values are JSON arrays of quote ids.
const (
	FavoritesKey = "favorites"
	ShownKey     = "shownQuoteIds"
)

const noQuote = -1

// QuoteRotationStore serves quotes in random order without repeating one until
// every other quote has been shown, and tracks favorites.
//
// All methods are safe for concurrent use. State changes are written to the
// KeyValueStore synchronously; write failures are logged and otherwise ignored.
type QuoteRotationStore struct {
	store       ports.KeyValueStore
	random      ports.RandomSource
	logger      *slog.Logger
	metrics     *metrics.Metrics
	historySize int

	mu        sync.Mutex
	corpus    []domain.Quote
	index     map[string]int
	shown     map[string]struct{}
	favorites map[string]struct{}
	current   int
	history   []int
}

// RotationStoreConfig contains the dependencies of the rotation store.
type RotationStoreConfig struct {
	// Store persists shown and favorite ids. Nil keeps state in memory only.
	Store ports.KeyValueStore
	// Random picks quotes. Nil seeds a PCG source from the clock.
	Random ports.RandomSource
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// HistorySize caps History(); zero disables it.
	HistorySize int
}

// NewQuoteRotationStore creates an empty store. Call Initialize before use.
func NewQuoteRotationStore(cfg RotationStoreConfig) *QuoteRotationStore {
	random := cfg.Random
	if random == nil {
		seed := uint64(time.Now().UnixNano()) //nolint:gosec // not security sensitive
		random = rand.New(rand.NewPCG(seed, seed>>1))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteRotationStore{
		store:       cfg.Store,
		random:      random,
		logger:      logger,
		metrics:     cfg.Metrics,
		historySize: max(cfg.HistorySize, 0),
		index:       map[string]int{},
		shown:       map[string]struct{}{},
		favorites:   map[string]struct{}{},
		current:     noQuote,
	}
}

// Initialize loads the corpus and restores persisted state. The first corpus
// quote becomes current; when the corpus is empty fallback becomes the whole
// corpus. Persisted ids that are not in the corpus are dropped.
func (s *QuoteRotationStore) Initialize(ctx context.Context, corpus []domain.Quote, fallback *domain.Quote) (*domain.Quote, error) {
	if len(corpus) == 0 {
		if fallback == nil {
			return nil, domain.NewEmptyCorpusError("initialize")
		}

		corpus = []domain.Quote{*fallback}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.corpus = make([]domain.Quote, len(corpus))
	copy(s.corpus, corpus)

	s.index = make(map[string]int, len(corpus))
	for i, q := range s.corpus {
		if _, dup := s.index[q.ID]; !dup {
			s.index[q.ID] = i
		}
	}

	s.shown = s.restore(ctx, ShownKey)
	s.favorites = s.restore(ctx, FavoritesKey)
	s.history = nil

	restoredShown := len(s.shown)
	s.show(0)
	s.persist(ctx, ShownKey, s.shown)
	s.persist(ctx, FavoritesKey, s.favorites)
	s.metrics.FavoritesChanged(len(s.favorites))

	s.logger.InfoContext(ctx, "quote rotation initialized",
		slog.Int("corpus_size", len(s.corpus)),
		slog.Int("restored_shown", restoredShown),
		slog.Int("restored_favorites", len(s.favorites)),
		slog.String("quote_id", s.corpus[0].ID),
	)

	return s.currentQuote(), nil
}

// Next selects a random quote other than the current one, preferring quotes
// not yet shown in this cycle. When every other quote has been shown the cycle
// restarts. A single-quote corpus keeps returning that quote.
func (s *QuoteRotationStore) Next(ctx context.Context) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.corpus) == 0 {
		return nil, domain.NewEmptyCorpusError("next")
	}

	return s.advance(ctx, false), nil
}

// Reset forgets which quotes were shown and selects a fresh quote. The current
// quote is still excluded when another one exists.
func (s *QuoteRotationStore) Reset(ctx context.Context) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.corpus) == 0 {
		return nil, domain.NewEmptyCorpusError("reset")
	}

	return s.advance(ctx, true), nil
}

// ToggleFavorite flips the favorite state of the quote with id, or of the
// current quote when id is empty, and returns the new state.
func (s *QuoteRotationStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if s.current == noQuote {
			return false, domain.NewNoCurrentQuoteError("toggle favorite")
		}

		id = s.corpus[s.current].ID
	}

	if _, ok := s.index[id]; !ok {
		return false, domain.NewNotFoundError("quote", id)
	}

	_, favorited := s.favorites[id]
	if favorited {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = struct{}{}
	}

	s.persist(ctx, FavoritesKey, s.favorites)
	s.metrics.FavoritesChanged(len(s.favorites))

	s.logger.DebugContext(ctx, "favorite toggled",
		slog.String("quote_id", id),
		slog.Bool("favorited", !favorited),
	)

	return !favorited, nil
}

// IsFavorited reports whether the quote with id, or the current quote when id
// is empty, is a favorite.
func (s *QuoteRotationStore) IsFavorited(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if s.current == noQuote {
			return false
		}

		id = s.corpus[s.current].ID
	}

	_, ok := s.favorites[id]

	return ok
}

// FavoriteQuotes returns the favorited quotes in corpus order.
func (s *QuoteRotationStore) FavoriteQuotes() []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := make([]domain.Quote, 0, len(s.favorites))
	for _, q := range s.corpus {
		if _, ok := s.favorites[q.ID]; ok {
			favorites = append(favorites, q)
		}
	}

	return favorites
}

// Current returns the quote on display, or nil before Initialize.
func (s *QuoteRotationStore) Current() *domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentQuote()
}

// ShownCount returns how many quotes have been shown in the current cycle.
func (s *QuoteRotationStore) ShownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.shown)
}

// History returns recently shown quotes, most recent first.
func (s *QuoteRotationStore) History() []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]domain.Quote, len(s.history))
	for i, idx := range s.history {
		history[i] = s.corpus[idx]
	}

	return history
}

// RotationStats summarizes the corpus and the rotation state.
type RotationStats struct {
	TotalQuotes   int
	FavoriteCount int
	UsedQuotes    int
	HistoryCount  int
	// CategoryCount maps each category to its number of quotes.
	CategoryCount map[string]int
}

// Stats returns counts over the corpus, favorites, shown set and history.
func (s *QuoteRotationStore) Stats() RotationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make(map[string]int)
	for _, q := range s.corpus {
		categories[q.Category]++
	}

	return RotationStats{
		TotalQuotes:   len(s.corpus),
		FavoriteCount: len(s.favorites),
		UsedQuotes:    len(s.shown),
		HistoryCount:  len(s.history),
		CategoryCount: categories,
	}
}

// Corpus returns a copy of the loaded quotes in corpus order.
func (s *QuoteRotationStore) Corpus() []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	corpus := make([]domain.Quote, len(s.corpus))
	copy(corpus, s.corpus)

	return corpus
}

// advance implements Next and Reset. Callers hold s.mu.
func (s *QuoteRotationStore) advance(ctx context.Context, reset bool) *domain.Quote {
	kind := metrics.RotationNext
	if reset {
		kind = metrics.RotationReset
		clear(s.shown)
		s.history = nil
	}

	available := make([]int, 0, len(s.corpus))
	unshown := make([]int, 0, len(s.corpus))

	for i, q := range s.corpus {
		if i == s.current {
			continue
		}

		available = append(available, i)
		if _, ok := s.shown[q.ID]; !ok {
			unshown = append(unshown, i)
		}
	}

	candidates := unshown
	if len(candidates) == 0 {
		if !reset {
			kind = metrics.RotationCycle
		}

		clear(s.shown)

		candidates = available
		if len(candidates) == 0 {
			candidates = []int{s.current}
		}
	}

	s.show(candidates[s.random.IntN(len(candidates))])
	s.persist(ctx, ShownKey, s.shown)
	s.metrics.RotationObserved(kind)

	quote := s.currentQuote()
	s.logger.DebugContext(ctx, "quote selected",
		slog.String("quote_id", quote.ID),
		slog.String("kind", kind),
		slog.Int("shown", len(s.shown)),
		slog.Int("corpus_size", len(s.corpus)),
	)

	return quote
}

// show makes corpus[idx] current. Callers hold s.mu.
func (s *QuoteRotationStore) show(idx int) {
	s.current = idx
	s.shown[s.corpus[idx].ID] = struct{}{}

	if s.historySize == 0 {
		return
	}

	s.history = append([]int{idx}, s.history...)
	if len(s.history) > s.historySize {
		s.history = s.history[:s.historySize]
	}
}

func (s *QuoteRotationStore) currentQuote() *domain.Quote {
	if s.current == noQuote {
		return nil
	}

	q := s.corpus[s.current]

	return &q
}

// restore reads a persisted id set, keeping only ids present in the corpus.
// Unreadable state starts empty.
func (s *QuoteRotationStore) restore(ctx context.Context, key string) map[string]struct{} {
	set := map[string]struct{}{}
	if s.store == nil {
		return set
	}

	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read rotation state",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return set
	}

	if !found || raw == "" {
		return set
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed rotation state",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return set
	}

	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			set[id] = struct{}{}
		}
	}

	return set
}

// persist writes an id set in corpus order. Failures are logged and counted only.
func (s *QuoteRotationStore) persist(ctx context.Context, key string, set map[string]struct{}) {
	if s.store == nil {
		return
	}

	ids := make([]string, 0, len(set))
	for _, q := range s.corpus {
		if _, ok := set[q.ID]; ok {
			ids = append(ids, q.ID)
		}
	}

	data, err := json.Marshal(ids)
	if err == nil {
		// A client hanging up must not drop the write.
		err = s.store.Set(context.WithoutCancel(ctx), key, string(data))
	}

	if err != nil {
		s.metrics.PersistFailed(key)
		s.logger.WarnContext(ctx, "failed to persist rotation state",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
