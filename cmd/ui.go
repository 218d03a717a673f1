package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/TFMV/colexgraph/colors"
)

// Terminal styles
var (
	Brand  = color.New(color.FgHiBlue, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// swatch paints a cell the way the detail panel does: the row color as
// background with its contrasting text color.
func swatch(bg colors.RGB, text colors.Contrast) *color.Color {
	fg := colors.RGB{R: 0xee, G: 0xee, B: 0xee}
	if text == colors.Dark {
		fg = colors.RGB{}
	}
	return color.RGB(int(fg.R), int(fg.G), int(fg.B)).AddBgRGB(int(bg.R), int(bg.G), int(bg.B))
}

// cell is a table cell with an optional style.
type cell struct {
	text  string
	style *color.Color
}

func plain(s string) cell { return cell{text: s} }

// table prints an aligned table. Cells are padded before they are styled
// so escape codes do not shift the columns.
func table(w io.Writer, headers []string, rows [][]cell) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, c := range row {
			if n := len([]rune(c.text)); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	header, sep := "  ", "  "
	for i, h := range headers {
		header += pad(h, widths[i]) + "  "
		sep += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(header, " "))
	Subtle.Fprintln(w, strings.TrimRight(sep, " "))

	for _, row := range rows {
		line := "  "
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			text := pad(c.text, widths[i])
			if c.style != nil {
				text = c.style.Sprint(text)
			}
			line += text + "  "
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
