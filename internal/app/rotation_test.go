package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotecards/internal/adapters/storage"
	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/mocks"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeCorpus(n int) []domain.Quote {
	quotes := make([]domain.Quote, n)
	for i := range quotes {
		quotes[i] = domain.Quote{
			ID:       fmt.Sprintf("%03d", i+1),
			Text:     fmt.Sprintf("quote %d", i+1),
			Author:   fmt.Sprintf("author %d", i+1),
			Category: "education",
		}
	}

	return quotes
}

func newTestRotation(t *testing.T, store ports.KeyValueStore, seed uint64) *QuoteRotationStore {
	t.Helper()

	return NewQuoteRotationStore(RotationStoreConfig{
		Store:       store,
		Random:      rand.New(rand.NewPCG(seed, seed+1)),
		Logger:      discardLogger(),
		HistorySize: 10,
	})
}

func TestRotation_NoRepeatsWithinCycle(t *testing.T) {
	for _, size := range []int{2, 3, 5, 22} {
		for seed := range uint64(20) {
			t.Run(fmt.Sprintf("size_%d_seed_%d", size, seed), func(t *testing.T) {
				ctx := context.Background()
				store := newTestRotation(t, storage.NewMemory(), seed)

				first, err := store.Initialize(ctx, makeCorpus(size), nil)
				require.NoError(t, err)

				seen := map[string]bool{first.ID: true}
				previous := first.ID

				for range size - 1 {
					q, err := store.Next(ctx)
					require.NoError(t, err)

					assert.NotEqual(t, previous, q.ID, "consecutive quotes must differ")
					assert.False(t, seen[q.ID], "quote %s repeated before cycle end", q.ID)

					seen[q.ID] = true
					previous = q.ID
				}

				assert.Len(t, seen, size)
				assert.Equal(t, size, store.ShownCount())
			})
		}
	}
}

func TestRotation_CycleRestartsWhenAllShown(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 7)

	_, err := store.Initialize(ctx, makeCorpus(4), nil)
	require.NoError(t, err)

	for range 3 {
		_, err := store.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 4, store.ShownCount())

	before := store.Current()
	q, err := store.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, store.ShownCount(), "new cycle holds only the picked quote")
	assert.NotEqual(t, before.ID, q.ID)
}

func TestRotation_TwoQuotesAlternate(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 1)
	corpus := []domain.Quote{
		{ID: "1", Text: "A", Author: "X"},
		{ID: "2", Text: "B", Author: "Y"},
	}

	first, err := store.Initialize(ctx, corpus, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)

	want := []string{"2", "1", "2", "1", "2"}
	for i, id := range want {
		q, err := store.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, q.ID, "call %d", i)
	}
}

func TestRotation_SingleQuoteCorpus(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 1)

	_, err := store.Initialize(ctx, makeCorpus(1), nil)
	require.NoError(t, err)

	for range 3 {
		q, err := store.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "001", q.ID)
		assert.Equal(t, 1, store.ShownCount())
	}

	q, err := store.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", q.ID)
}

func TestRotation_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty corpus without fallback", func(t *testing.T) {
		store := newTestRotation(t, nil, 1)

		_, err := store.Initialize(ctx, nil, nil)

		var emptyErr *domain.EmptyCorpusError
		require.ErrorAs(t, err, &emptyErr)
		assert.Nil(t, store.Current())
	})

	t.Run("empty corpus with fallback", func(t *testing.T) {
		store := newTestRotation(t, nil, 1)
		fallback := domain.Quote{ID: "backup", Text: "知识就是力量。", Author: "培根"}

		q, err := store.Initialize(ctx, []domain.Quote{}, &fallback)
		require.NoError(t, err)

		assert.Equal(t, "backup", q.ID)
		assert.Equal(t, []domain.Quote{fallback}, store.Corpus())
		assert.Equal(t, 1, store.ShownCount())
	})

	t.Run("first quote is current and shown", func(t *testing.T) {
		store := newTestRotation(t, nil, 1)

		q, err := store.Initialize(ctx, makeCorpus(3), nil)
		require.NoError(t, err)

		assert.Equal(t, "001", q.ID)
		assert.Equal(t, "001", store.Current().ID)
		assert.Equal(t, 1, store.ShownCount())
	})

	t.Run("reinitialize replaces the corpus", func(t *testing.T) {
		store := newTestRotation(t, nil, 1)

		_, err := store.Initialize(ctx, makeCorpus(3), nil)
		require.NoError(t, err)
		_, err = store.Next(ctx)
		require.NoError(t, err)

		corpus := []domain.Quote{{ID: "x", Text: "t", Author: "a"}}
		q, err := store.Initialize(ctx, corpus, nil)
		require.NoError(t, err)

		assert.Equal(t, "x", q.ID)
		assert.Equal(t, corpus, store.Corpus())
	})
}

func TestRotation_UninitializedStore(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, nil, 1)

	_, err := store.Next(ctx)
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = store.Reset(ctx)
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = store.ToggleFavorite(ctx, "")
	require.ErrorIs(t, err, domain.ErrNoCurrentQuote)

	assert.False(t, store.IsFavorited(""))
	assert.Empty(t, store.FavoriteQuotes())
	assert.Empty(t, store.History())
}

func TestRotation_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 3)

	_, err := store.Initialize(ctx, makeCorpus(5), nil)
	require.NoError(t, err)

	t.Run("defaults to current and is its own inverse", func(t *testing.T) {
		assert.False(t, store.IsFavorited(""))

		on, err := store.ToggleFavorite(ctx, "")
		require.NoError(t, err)
		assert.True(t, on)
		assert.True(t, store.IsFavorited(""))
		assert.True(t, store.IsFavorited("001"))

		off, err := store.ToggleFavorite(ctx, "")
		require.NoError(t, err)
		assert.False(t, off)
		assert.False(t, store.IsFavorited("001"))
	})

	t.Run("explicit id", func(t *testing.T) {
		on, err := store.ToggleFavorite(ctx, "004")
		require.NoError(t, err)
		assert.True(t, on)
		assert.True(t, store.IsFavorited("004"))
		assert.False(t, store.IsFavorited(""), "current quote unaffected")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.ToggleFavorite(ctx, "999")

		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "999", notFound.ID)
	})
}

func TestRotation_FavoriteQuotesInCorpusOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 3)

	_, err := store.Initialize(ctx, makeCorpus(5), nil)
	require.NoError(t, err)

	for _, id := range []string{"005", "002", "004"} {
		_, err := store.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	favorites := store.FavoriteQuotes()
	ids := make([]string, len(favorites))
	for i, q := range favorites {
		ids[i] = q.ID
	}

	assert.Equal(t, []string{"002", "004", "005"}, ids)
}

func TestRotation_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	corpus := makeCorpus(6)

	first := newTestRotation(t, kv, 11)
	_, err := first.Initialize(ctx, corpus, nil)
	require.NoError(t, err)

	_, err = first.Next(ctx)
	require.NoError(t, err)
	_, err = first.ToggleFavorite(ctx, "003")
	require.NoError(t, err)

	favorites, found, err := kv.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `["003"]`, favorites)

	shown, _, err := kv.Get(ctx, ShownKey)
	require.NoError(t, err)
	assert.Contains(t, shown, `"001"`)

	second := newTestRotation(t, kv, 12)
	_, err = second.Initialize(ctx, corpus, nil)
	require.NoError(t, err)

	assert.True(t, second.IsFavorited("003"))
	assert.Equal(t, 2, second.ShownCount(), "restored shown set keeps both ids")
}

func TestRotation_RestoreDropsUnknownAndMalformedState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, FavoritesKey, `["002","gone"]`))
	require.NoError(t, kv.Set(ctx, ShownKey, `{not json`))

	store := newTestRotation(t, kv, 1)
	_, err := store.Initialize(ctx, makeCorpus(3), nil)
	require.NoError(t, err)

	assert.Len(t, store.FavoriteQuotes(), 1)
	assert.True(t, store.IsFavorited("002"))
	assert.Equal(t, 1, store.ShownCount())

	favorites, _, err := kv.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["002"]`, favorites, "stale ids are not written back")
}

func TestRotation_PersistFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMockKeyValueStore(t)
	kv.EXPECT().Get(mock.Anything, mock.Anything).Return("", false, errors.New("quota exceeded"))
	kv.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	store := newTestRotation(t, kv, 5)

	q, err := store.Initialize(ctx, makeCorpus(3), nil)
	require.NoError(t, err)
	require.NotNil(t, q)

	next, err := store.Next(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, next.ID)

	on, err := store.ToggleFavorite(ctx, "")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, store.IsFavorited(""))
}

func TestRotation_PersistSurvivesCancelledContext(t *testing.T) {
	kv := mocks.NewMockKeyValueStore(t)
	kv.EXPECT().Get(mock.Anything, mock.Anything).Return("", false, nil)
	kv.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _, _ string) error { return ctx.Err() })

	store := newTestRotation(t, kv, 5)
	_, err := store.Initialize(context.Background(), makeCorpus(3), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.ToggleFavorite(ctx, "002")
	require.NoError(t, err)
	kv.AssertCalled(t, "Set", mock.Anything, FavoritesKey, `["002"]`)
}

func TestRotation_ResetExcludesCurrent(t *testing.T) {
	ctx := context.Background()

	for seed := range uint64(10) {
		store := newTestRotation(t, nil, seed)
		_, err := store.Initialize(ctx, makeCorpus(3), nil)
		require.NoError(t, err)

		_, err = store.Next(ctx)
		require.NoError(t, err)
		before := store.Current()

		q, err := store.Reset(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, before.ID, q.ID)
		assert.Equal(t, 1, store.ShownCount())
	}
}

func TestRotation_HistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	store := NewQuoteRotationStore(RotationStoreConfig{
		Random:      rand.New(rand.NewPCG(1, 2)),
		Logger:      discardLogger(),
		HistorySize: 3,
	})

	_, err := store.Initialize(ctx, makeCorpus(10), nil)
	require.NoError(t, err)

	var last *domain.Quote
	for range 5 {
		last, err = store.Next(ctx)
		require.NoError(t, err)
	}

	history := store.History()
	require.Len(t, history, 3)
	assert.Equal(t, last.ID, history[0].ID, "most recent first")
}

func TestRotation_ResetClearsHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, nil, 7)

	_, err := store.Initialize(ctx, makeCorpus(10), nil)
	require.NoError(t, err)

	for range 3 {
		_, err = store.Next(ctx)
		require.NoError(t, err)
	}

	require.Len(t, store.History(), 4)

	q, err := store.Reset(ctx)
	require.NoError(t, err)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, q.ID, history[0].ID)
	assert.Equal(t, 1, store.ShownCount())
}

func TestRotation_Stats(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, nil, 3)

	assert.Equal(t, RotationStats{CategoryCount: map[string]int{}}, store.Stats())

	corpus := makeCorpus(5)
	corpus[4].Category = "wisdom"

	_, err := store.Initialize(ctx, corpus, nil)
	require.NoError(t, err)

	_, err = store.Next(ctx)
	require.NoError(t, err)

	_, err = store.ToggleFavorite(ctx, "003")
	require.NoError(t, err)

	assert.Equal(t, RotationStats{
		TotalQuotes:   5,
		FavoriteCount: 1,
		UsedQuotes:    2,
		HistoryCount:  2,
		CategoryCount: map[string]int{"education": 4, "wisdom": 1},
	}, store.Stats())
}

func TestRotation_SameSeedSameSequence(t *testing.T) {
	ctx := context.Background()
	sequence := func() []string {
		store := newTestRotation(t, nil, 42)
		_, err := store.Initialize(ctx, makeCorpus(8), nil)
		require.NoError(t, err)

		ids := make([]string, 0, 12)
		for range 12 {
			q, err := store.Next(ctx)
			require.NoError(t, err)
			ids = append(ids, q.ID)
		}

		return ids
	}

	assert.Equal(t, sequence(), sequence())
}

func TestRotation_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	store := newTestRotation(t, storage.NewMemory(), 9)
	_, err := store.Initialize(ctx, makeCorpus(12), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 50 {
				_, _ = store.Next(ctx)
				_, _ = store.ToggleFavorite(ctx, fmt.Sprintf("%03d", i+1))
				_ = store.FavoriteQuotes()
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, store.ShownCount(), 12)
	assert.NotNil(t, store.Current())
}
