package ui

import (
	"strconv"
	"strings"

	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// BoardRenderer draws boards for the terminal, one three-column cell per square.
type BoardRenderer struct {
	light     lipgloss.Style
	dark      lipgloss.Style
	highlight lipgloss.Style
	label     lipgloss.Style
	white     lipgloss.Style
	black     lipgloss.Style
}

// NewBoardRenderer styles output for r's terminal; a renderer writing to a
// non-terminal produces plain text.
func NewBoardRenderer(r *lipgloss.Renderer) *BoardRenderer {
	return &BoardRenderer{
		light:     r.NewStyle().Background(lipgloss.Color("187")),
		dark:      r.NewStyle().Background(lipgloss.Color("101")),
		highlight: r.NewStyle().Background(lipgloss.Color("143")),
		label:     r.NewStyle().Faint(true),
		white:     r.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
		black:     r.NewStyle().Foreground(lipgloss.Color("16")).Bold(true),
	}
}

func fileLabels(perspective model.Color) string {
	if perspective == model.Black {
		return "    h  g  f  e  d  c  b  a"
	}
	return "    a  b  c  d  e  f  g  h"
}

// Render draws b as seen by perspective: White has rank 8 at the top and the
// a-file on the left, Black the reverse. Highlighted empty squares show a dot.
func (br *BoardRenderer) Render(b *model.Board, perspective model.Color, highlights ...model.Position) string {
	marked := make(map[model.Position]bool, len(highlights))
	for _, p := range highlights {
		marked[p] = true
	}

	var sb strings.Builder
	sb.WriteString(br.label.Render(fileLabels(perspective)))
	sb.WriteByte('\n')

	for row := 0; row < 8; row++ {
		rank := 8 - row
		if perspective == model.Black {
			rank = row + 1
		}
		rankLabel := br.label.Render(" " + strconv.Itoa(rank) + " ")
		sb.WriteString(rankLabel)
		for col := 0; col < 8; col++ {
			file := col + 1
			if perspective == model.Black {
				file = 8 - col
			}
			p, _ := model.NewPosition(file, rank)
			sb.WriteString(br.square(b, p, marked[p]))
		}
		sb.WriteString(rankLabel)
		sb.WriteByte('\n')
	}

	sb.WriteString(br.label.Render(fileLabels(perspective)))
	sb.WriteByte('\n')
	return sb.String()
}

func (br *BoardRenderer) square(b *model.Board, p model.Position, marked bool) string {
	background := br.light
	if (p.File()+p.Rank())%2 == 0 {
		background = br.dark
	}
	if marked {
		background = br.highlight
	}

	piece, occupied := b.Get(p)
	switch {
	case occupied && piece.Color == model.White:
		return background.Inherit(br.white).Render(" " + piece.String() + " ")
	case occupied:
		return background.Inherit(br.black).Render(" " + piece.String() + " ")
	case marked:
		return background.Render(" · ")
	}
	return background.Render("   ")
}
