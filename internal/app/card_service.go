package app

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/platform/logging"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

// DefaultCardLabel prefixes card file names.
const DefaultCardLabel = "金句卡片"

// RenderedCard is a card together with the quote it shows and its download name.
type RenderedCard struct {
	domain.Card

	Quote    domain.Quote
	Filename string
}

// CardServiceConfig contains the dependencies of CardService.
type CardServiceConfig struct {
	Rotation *QuoteRotationStore
	Catalog  *QuoteCatalog
	Renderer ports.CardRenderer
	Style    domain.CardStyle
	// Label prefixes file names. Defaults to DefaultCardLabel.
	Label string
	// MaxParallel bounds concurrent renders for favorites. Zero means no bound.
	MaxParallel int
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// CardService renders share cards for quotes.
type CardService struct {
	rotation    *QuoteRotationStore
	catalog     *QuoteCatalog
	renderer    ports.CardRenderer
	style       domain.CardStyle
	label       string
	maxParallel int
	logger      *slog.Logger
	now         func() time.Time
}

// NewCardService creates a CardService.
func NewCardService(cfg CardServiceConfig) *CardService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	label := cfg.Label
	if label == "" {
		label = DefaultCardLabel
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &CardService{
		rotation:    cfg.Rotation,
		catalog:     cfg.Catalog,
		renderer:    cfg.Renderer,
		style:       cfg.Style,
		label:       label,
		maxParallel: cfg.MaxParallel,
		logger:      logger.With(slog.String("component", "app.CardService")),
		now:         now,
	}
}

// RenderByID renders the quote with id.
func (s *CardService) RenderByID(ctx context.Context, id string) (*RenderedCard, error) {
	q, err := s.catalog.ByID(id)
	if err != nil {
		return nil, err
	}

	return s.render(ctx, *q)
}

// RenderCurrent renders the quote on display.
func (s *CardService) RenderCurrent(ctx context.Context) (*RenderedCard, error) {
	q := s.rotation.Current()
	if q == nil {
		return nil, domain.NewNoCurrentQuoteError("render card")
	}

	return s.render(ctx, *q)
}

// RenderFavorites renders every favorite concurrently, in corpus order.
// The first failure aborts the batch.
func (s *CardService) RenderFavorites(ctx context.Context) ([]*RenderedCard, error) {
	favorites := s.rotation.FavoriteQuotes()

	fns := make([]func(context.Context) (*RenderedCard, error), len(favorites))
	for i, q := range favorites {
		fns[i] = func(ctx context.Context) (*RenderedCard, error) {
			return s.render(ctx, q)
		}
	}

	cards, err := ParallelLimit(ctx, s.maxParallel, fns...)
	if err != nil {
		return nil, fmt.Errorf("rendering favorites: %w", err)
	}

	return cards, nil
}

// WriteFavoritesArchive renders all favorites into a zip archive written to w
// and returns the number of cards. It fails with a NotFoundError when there are
// no favorites.
func (s *CardService) WriteFavoritesArchive(ctx context.Context, w io.Writer) (int, error) {
	cards, err := s.RenderFavorites(ctx)
	if err != nil {
		return 0, err
	}

	if len(cards) == 0 {
		return 0, domain.NewNotFoundError("favorite cards", "")
	}

	zw := zip.NewWriter(w)

	for i, card := range cards {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     fmt.Sprintf("%02d_%s", i+1, card.Filename),
			Method:   zip.Store,
			Modified: s.now(),
		})
		if err != nil {
			return 0, domain.NewEncodingError("zip", err)
		}

		if _, err := entry.Write(card.PNG); err != nil {
			return 0, domain.NewEncodingError("zip", err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, domain.NewEncodingError("zip", err)
	}

	return len(cards), nil
}

func (s *CardService) render(ctx context.Context, q domain.Quote) (*RenderedCard, error) {
	ctx = logging.WithQuoteID(ctx, q.ID)

	card, err := s.renderer.Render(ctx, q, s.style)
	if err != nil {
		s.logger.ErrorContext(ctx, "card render failed",
			slog.String("quote_id", q.ID),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("rendering card for quote %q: %w", q.ID, err)
	}

	return &RenderedCard{
		Card:     *card,
		Quote:    q,
		Filename: Filename(s.label, q.Author, s.now()),
	}, nil
}

var pathSeparators = strings.NewReplacer("/", "_", "\\", "_")

// Filename returns "<label>_<author>_<unix millis>.png" with path separators
// in label and author replaced by underscores.
func Filename(label, author string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d.png",
		pathSeparators.Replace(label),
		pathSeparators.Replace(author),
		now.UnixMilli(),
	)
}

// ArchiveFilename names the favorites zip archive.
func (s *CardService) ArchiveFilename() string {
	return fmt.Sprintf("%s_favorites_%d.zip", pathSeparators.Replace(s.label), s.now().UnixMilli())
}
