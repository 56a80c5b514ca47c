package app

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/mocks"
)

var fixedNow = time.UnixMilli(1700000000123)

func newCardServiceFixture(t *testing.T, renderer *mocks.MockCardRenderer) (*CardService, *QuoteRotationStore) {
	t.Helper()

	corpus := makeCorpus(4)
	rotation := newTestRotation(t, nil, 1)

	_, err := rotation.Initialize(context.Background(), corpus, nil)
	require.NoError(t, err)

	svc := NewCardService(CardServiceConfig{
		Rotation:    rotation,
		Catalog:     NewQuoteCatalog(corpus),
		Renderer:    renderer,
		Style:       domain.DefaultCardStyle(),
		MaxParallel: 2,
		Logger:      discardLogger(),
		Now:         func() time.Time { return fixedNow },
	})

	return svc, rotation
}

func fakeCard(q domain.Quote) *domain.Card {
	return &domain.Card{PNG: []byte("png:" + q.ID), Width: 540, Height: 960, Lines: 1}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		author string
		want   string
	}{
		{name: "plain", label: "金句卡片", author: "孔子", want: "金句卡片_孔子_1700000000123.png"},
		{name: "slash in author", label: "card", author: "AC/DC", want: "card_AC_DC_1700000000123.png"},
		{name: "backslash in label", label: `a\b`, author: "x", want: "a_b_x_1700000000123.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.label, tt.author, fixedNow))
		})
	}
}

func TestCardService_RenderCurrent(t *testing.T) {
	renderer := mocks.NewMockCardRenderer(t)
	svc, _ := newCardServiceFixture(t, renderer)

	renderer.EXPECT().
		Render(mock.Anything, mock.MatchedBy(func(q domain.Quote) bool { return q.ID == "001" }), domain.DefaultCardStyle()).
		Return(&domain.Card{PNG: []byte("png"), Width: 540, Height: 960, Lines: 2}, nil)

	card, err := svc.RenderCurrent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "001", card.Quote.ID)
	assert.Equal(t, 2, card.Lines)
	assert.Equal(t, "金句卡片_author 1_1700000000123.png", card.Filename)
}

func TestCardService_RenderCurrentWithoutQuote(t *testing.T) {
	svc := NewCardService(CardServiceConfig{
		Rotation: newTestRotation(t, nil, 1),
		Catalog:  NewQuoteCatalog(nil),
		Renderer: mocks.NewMockCardRenderer(t),
	})

	_, err := svc.RenderCurrent(context.Background())
	require.ErrorIs(t, err, domain.ErrNoCurrentQuote)
}

func TestCardService_RenderByID(t *testing.T) {
	renderer := mocks.NewMockCardRenderer(t)
	svc, _ := newCardServiceFixture(t, renderer)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.RenderByID(context.Background(), "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("render failure keeps cause", func(t *testing.T) {
		renderer.EXPECT().
			Render(mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.NewRenderSurfaceError(0, 0, "size must be positive")).
			Once()

		_, err := svc.RenderByID(context.Background(), "003")
		require.ErrorIs(t, err, domain.ErrRenderSurface)
		assert.Contains(t, err.Error(), `"003"`)
	})
}

func TestCardService_RenderFavorites(t *testing.T) {
	ctx := context.Background()
	renderer := mocks.NewMockCardRenderer(t)
	svc, rotation := newCardServiceFixture(t, renderer)

	renderer.EXPECT().
		Render(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, q domain.Quote, _ domain.CardStyle) (*domain.Card, error) {
			return fakeCard(q), nil
		})

	for _, id := range []string{"004", "002"} {
		_, err := rotation.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	cards, err := svc.RenderFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "002", cards[0].Quote.ID)
	assert.Equal(t, []byte("png:004"), cards[1].PNG)
}

func TestCardService_RenderFavoritesFailure(t *testing.T) {
	ctx := context.Background()
	renderer := mocks.NewMockCardRenderer(t)
	svc, rotation := newCardServiceFixture(t, renderer)

	renderer.EXPECT().
		Render(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewEncodingError("png", errors.New("disk full")))

	_, err := rotation.ToggleFavorite(ctx, "001")
	require.NoError(t, err)

	_, err = svc.RenderFavorites(ctx)
	require.ErrorIs(t, err, domain.ErrEncoding)
}

func TestCardService_WriteFavoritesArchive(t *testing.T) {
	ctx := context.Background()

	t.Run("no favorites", func(t *testing.T) {
		svc, _ := newCardServiceFixture(t, mocks.NewMockCardRenderer(t))

		n, err := svc.WriteFavoritesArchive(ctx, io.Discard)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Zero(t, n)
	})

	t.Run("one entry per favorite", func(t *testing.T) {
		renderer := mocks.NewMockCardRenderer(t)
		svc, rotation := newCardServiceFixture(t, renderer)

		renderer.EXPECT().
			Render(mock.Anything, mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, q domain.Quote, _ domain.CardStyle) (*domain.Card, error) {
				return fakeCard(q), nil
			})

		for _, id := range []string{"001", "003"} {
			_, err := rotation.ToggleFavorite(ctx, id)
			require.NoError(t, err)
		}

		var buf bytes.Buffer
		n, err := svc.WriteFavoritesArchive(ctx, &buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 2)

		assert.Equal(t, "01_金句卡片_author 1_1700000000123.png", zr.File[0].Name)
		assert.Equal(t, "02_金句卡片_author 3_1700000000123.png", zr.File[1].Name)

		rc, err := zr.File[1].Open()
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "png:003", string(data))
	})
}

func TestCardService_ArchiveFilename(t *testing.T) {
	svc, _ := newCardServiceFixture(t, mocks.NewMockCardRenderer(t))

	assert.Equal(t, "金句卡片_favorites_1700000000123.zip", svc.ArchiveFilename())
}
