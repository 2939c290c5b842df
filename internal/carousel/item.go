package carousel

import "github.com/westwooddairy/storefront-backend/pkg/colors"

// DefaultAccent is the pink fallback used when an item carries no accent or
// the accent fails to parse.
const DefaultAccent = "#fce7f3"

// Item is one gallery entry before the engine derives runtime tiles from it.
// Accent feeds the ambient background palette and the caption outline.
type Item struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
	Accent  string `json:"accent,omitempty"`
}

// defaultItems keeps the strip populated when the caller provides nothing.
func defaultItems() []Item {
	return []Item{
		{Image: "https://picsum.photos/seed/1/800/600?grayscale", Caption: "Bridge"},
		{Image: "https://picsum.photos/seed/2/800/600?grayscale", Caption: "Desk Setup"},
		{Image: "https://picsum.photos/seed/3/800/600?grayscale", Caption: "Waterfall"},
		{Image: "https://picsum.photos/seed/4/800/600?grayscale", Caption: "Strawberries"},
		{Image: "https://picsum.photos/seed/5/800/600?grayscale", Caption: "Deep Diving"},
		{Image: "https://picsum.photos/seed/16/800/600?grayscale", Caption: "Train Track"},
		{Image: "https://picsum.photos/seed/17/800/600?grayscale", Caption: "Santorini"},
		{Image: "https://picsum.photos/seed/8/800/600?grayscale", Caption: "Blurry Lights"},
		{Image: "https://picsum.photos/seed/9/800/600?grayscale", Caption: "New York"},
		{Image: "https://picsum.photos/seed/10/800/600?grayscale", Caption: "Good Boy"},
		{Image: "https://picsum.photos/seed/21/800/600?grayscale", Caption: "Coastline"},
		{Image: "https://picsum.photos/seed/12/800/600?grayscale", Caption: "Palm Trees"},
	}
}

// buildPalette resolves one background color per source item. Entries with a
// missing or malformed accent fall back to DefaultAccent.
func buildPalette(items []Item) []colors.RGB {
	fallback, ok := colors.ParseHex(DefaultAccent)
	if !ok {
		fallback = colors.RGB{R: 252, G: 231, B: 243}
	}
	palette := make([]colors.RGB, 0, len(items))
	for _, item := range items {
		accent := fallback
		if item.Accent != "" {
			if parsed, ok := colors.ParseHex(item.Accent); ok {
				accent = parsed
			}
		}
		palette = append(palette, accent)
	}
	return palette
}
