package colors

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// category20c is the fixed set of hues handed out to categories.
var category20c = [...]string{
	"#3182bd", "#6baed6", "#9ecae1", "#c6dbef",
	"#e6550d", "#fd8d3c", "#fdae6b", "#fdd0a2",
	"#31a354", "#74c476", "#a1d99b", "#c7e9c0",
	"#756bb1", "#9e9ac8", "#bcbddc", "#dadaeb",
	"#636363", "#969696", "#bdbdbd", "#d9d9d9",
}

// PaletteSize is the number of distinct hues before assignment wraps.
const PaletteSize = len(category20c)

// Palette assigns hues to category values in first-seen order. The
// assignment is stable for the life of the palette.
type Palette struct {
	assigned *linkedhashmap.Map // category -> hue index
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{assigned: linkedhashmap.New()}
}

// Color returns the hue of category, assigning the next one if the
// category has not been seen yet.
func (p *Palette) Color(category string) RGB {
	return mustHex(category20c[p.index(category)])
}

// Hex is Color formatted as "#rrggbb".
func (p *Palette) Hex(category string) string {
	return category20c[p.index(category)]
}

func (p *Palette) index(category string) int {
	if v, ok := p.assigned.Get(category); ok {
		return v.(int)
	}
	i := p.assigned.Size() % PaletteSize
	p.assigned.Put(category, i)
	return i
}

// Categories lists every category seen so far in first-seen order.
func (p *Palette) Categories() []string {
	keys := p.assigned.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Len returns the number of categories seen so far.
func (p *Palette) Len() int {
	return p.assigned.Size()
}

func mustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
