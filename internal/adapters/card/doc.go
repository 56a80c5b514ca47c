// Package card renders quotes onto portrait PNG cards.
//
// The layout follows the quote page's share card: a soft vertical gradient,
// faint decorative rings, a gradient top bar, the quote wrapped grapheme by
// grapheme and centered on the card, then a divider, the author and a brand
// label near the bottom edge.
//
// Renderer is safe for concurrent use. Every Render allocates its own surface
// and font faces.
package card
