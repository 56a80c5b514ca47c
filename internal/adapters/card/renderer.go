package card

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/platform/metrics"
)

// Surface limits in device pixels.
const (
	MaxSurfaceSide = 16384
	MaxSurfaceArea = 1 << 28
)

const tracerName = "github.com/jsamuelsen/quotecards/internal/adapters/card"

// Config configures a Renderer.
type Config struct {
	// Font is a TrueType or OpenType font. Nil uses the bundled Go Regular face,
	// which has no CJK glyphs.
	Font []byte
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Renderer draws quote cards. It implements ports.CardRenderer.
type Renderer struct {
	font    *opentype.Font
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New parses the configured font and returns a Renderer.
func New(cfg Config) (*Renderer, error) {
	data := cfg.Font
	if len(data) == 0 {
		data = goregular.TTF
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing card font: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		font:    f,
		logger:  logger.With(slog.String("component", "card.Renderer")),
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// LoadFont reads a font file. An empty path returns nil, selecting the bundled face.
func LoadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card font: %w", err)
	}

	return data, nil
}

// Render draws q with style and returns the PNG-encoded card.
func (r *Renderer) Render(ctx context.Context, q domain.Quote, style domain.CardStyle) (card *domain.Card, err error) {
	ctx, span := r.tracer.Start(ctx, "card.render", trace.WithAttributes(
		attribute.String("quote.id", q.ID),
		attribute.Float64("card.dpr", style.DPR),
	))
	start := time.Now()

	defer func() {
		r.metrics.CardRendered(err, time.Since(start))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if err = q.Validate(); err != nil {
		return nil, err
	}

	scale := style.DPR
	if scale <= 0 {
		scale = 1
	}

	c, err := newCanvas(style.Width, style.Height, scale)
	if err != nil {
		return nil, err
	}

	quoteFace, err := r.newFace(style.QuoteFontSize, 1)
	if err != nil {
		return nil, err
	}
	defer quoteFace.Close()

	layout := layoutText(q.Text, style, quoteFace)

	if err = r.draw(c, q, style, layout); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, c.img); err != nil {
		return nil, domain.NewEncodingError("png", err)
	}

	bounds := c.img.Bounds()
	span.SetAttributes(attribute.Int("card.lines", len(layout.Lines)))

	r.logger.DebugContext(ctx, "card rendered",
		slog.String("quote_id", q.ID),
		slog.Int("lines", len(layout.Lines)),
		slog.Int("bytes", buf.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &domain.Card{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Lines:  len(layout.Lines),
	}, nil
}

func (r *Renderer) draw(c *canvas, q domain.Quote, style domain.CardStyle, layout Layout) error {
	width := float64(style.Width)
	height := float64(style.Height)
	centerX := width / 2

	c.verticalGradient(style.Background)

	for range style.DecorationCount {
		c.strokeCircle(
			randFloat()*width,
			randFloat()*height,
			randFloat()*50+10,
			style.DecorationColor,
		)
	}

	c.horizontalGradient(float64(style.TopBarHeight), style.TopBar)

	quoteFace, err := r.newFace(style.QuoteFontSize, c.scale)
	if err != nil {
		return err
	}
	defer quoteFace.Close()

	for i, line := range layout.Lines {
		c.text(quoteFace, line, centerX, layout.LineY(i), style.QuoteColor)
	}

	authorY := height - float64(style.Padding) - 120
	c.fillRect(centerX-60, authorY-31, centerX+60, authorY-29, style.DividerColor)

	authorFace, err := r.newFace(style.AuthorFontSize, c.scale)
	if err != nil {
		return err
	}
	defer authorFace.Close()

	c.text(authorFace, "— "+q.Author, centerX, authorY, style.AuthorColor)

	if style.Brand == "" {
		return nil
	}

	brandFace, err := r.newFace(style.BrandFontSize, c.scale)
	if err != nil {
		return err
	}
	defer brandFace.Close()

	c.text(brandFace, style.Brand, centerX, height-float64(style.Padding)+20, style.BrandColor)

	return nil
}

func (r *Renderer) newFace(size, scale float64) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.0fpx face: %w", size*scale, err)
	}

	return face, nil
}

// surfaceSize converts a CSS size to device pixels and checks it against the
// surface limits.
func surfaceSize(width, height int, scale float64) (int, int, error) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))

	switch {
	case w <= 0 || h <= 0:
		return 0, 0, domain.NewRenderSurfaceError(w, h, "size must be positive")
	case w > MaxSurfaceSide || h > MaxSurfaceSide:
		return 0, 0, domain.NewRenderSurfaceError(w, h, fmt.Sprintf("side exceeds %d pixels", MaxSurfaceSide))
	case w*h > MaxSurfaceArea:
		return 0, 0, domain.NewRenderSurfaceError(w, h, fmt.Sprintf("area exceeds %d pixels", MaxSurfaceArea))
	}

	return w, h, nil
}
