package domain

import "image/color"

// CardStyle is the immutable layout and palette used to draw a quote card.
// Sizes are in CSS pixels; DPR scales them to device pixels.
type CardStyle struct {
	Width        int
	Height       int
	Padding      int
	DPR          float64
	LineHeight   int
	TopBarHeight int

	QuoteFontSize  float64
	AuthorFontSize float64
	BrandFontSize  float64

	Background      [3]color.NRGBA
	TopBar          [3]color.NRGBA
	QuoteColor      color.NRGBA
	AuthorColor     color.NRGBA
	BrandColor      color.NRGBA
	DividerColor    color.NRGBA
	DecorationColor color.NRGBA

	// DecorationCount is the number of outlined circles scattered on the background.
	DecorationCount int

	// Brand is the label drawn at the bottom of the card.
	Brand string
}

// DefaultCardStyle returns the portrait 540x960 style used by the quotes page.
func DefaultCardStyle() CardStyle {
	return CardStyle{
		Width:          540,
		Height:         960,
		Padding:        60,
		DPR:            1,
		LineHeight:     60,
		TopBarHeight:   8,
		QuoteFontSize:  36,
		AuthorFontSize: 24,
		BrandFontSize:  18,
		Background: [3]color.NRGBA{
			{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff},
			{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff},
			{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff},
		},
		TopBar: [3]color.NRGBA{
			{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
			{R: 0x1d, G: 0x4e, B: 0xd8, A: 0xff},
			{R: 0x1e, G: 0x40, B: 0xaf, A: 0xff},
		},
		QuoteColor:      color.NRGBA{R: 0x14, G: 0x4a, B: 0x74, A: 0xff},
		AuthorColor:     color.NRGBA{R: 0x13, G: 0x48, B: 0x57, A: 0xff},
		BrandColor:      color.NRGBA{R: 100, G: 116, B: 139, A: 153},
		DividerColor:    color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff},
		DecorationColor: color.NRGBA{R: 148, G: 163, B: 184, A: 26},
		DecorationCount: 20,
		Brand:           "上节好课",
	}
}

// Card is a rendered quote card.
type Card struct {
	// PNG holds the encoded image.
	PNG []byte

	// Width and Height are in device pixels.
	Width  int
	Height int

	// Lines is the number of wrapped quote lines.
	Lines int
}
