package card

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"

	"github.com/jsamuelsen/quotecards/internal/domain"
)

// Layout is the result of wrapping and vertically centering a quote.
// Coordinates are in CSS pixels.
type Layout struct {
	Lines      []string
	TopY       float64
	LineHeight int
	MaxWidth   int
}

// LineY returns the vertical middle of line i.
func (l Layout) LineY(i int) float64 {
	return l.TopY + float64(i*l.LineHeight)
}

// Layout wraps q.Text with the quote face and centers the block on the card.
func (r *Renderer) Layout(q domain.Quote, style domain.CardStyle) (Layout, error) {
	face, err := r.newFace(style.QuoteFontSize, 1)
	if err != nil {
		return Layout{}, err
	}
	defer face.Close()

	return layoutText(q.Text, style, face), nil
}

func layoutText(text string, style domain.CardStyle, face font.Face) Layout {
	maxWidth := style.Width - 2*style.Padding
	lines := wrapText(strings.TrimSpace(text), maxWidth, func(s string) int {
		return font.MeasureString(face, s).Ceil()
	})

	return Layout{
		Lines:      lines,
		TopY:       float64(style.Height)/2 - float64(len(lines)*style.LineHeight)/2,
		LineHeight: style.LineHeight,
		MaxWidth:   maxWidth,
	}
}

// wrapText breaks text greedily between grapheme clusters so that no line is
// wider than maxWidth. A cluster wider than maxWidth on its own gets its own
// line. Newlines force a break. The result always has at least one line.
func wrapText(text string, maxWidth int, measure func(string) int) []string {
	var (
		lines []string
		line  strings.Builder
	)

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()

		if cluster == "\n" || cluster == "\r\n" {
			lines = append(lines, line.String())
			line.Reset()

			continue
		}

		candidate := line.String() + cluster
		if line.Len() > 0 && measure(candidate) > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}

		line.WriteString(cluster)
	}

	return append(lines, line.String())
}
