package display

import (
	"fmt"
	"io"
	"strings"
)

const boardWidth = 8

// expandPlacement turns a placement string into eight rows of eight
// characters, '.' for empty squares
func expandPlacement(placement string) ([]string, error) {
	ranks := strings.Split(placement, "/")
	if len(ranks) != boardWidth {
		return nil, fmt.Errorf("placement has %d ranks, want %d", len(ranks), boardWidth)
	}

	rows := make([]string, 0, boardWidth)
	for i, rank := range ranks {
		var row strings.Builder
		for _, char := range rank {
			switch {
			case char >= '1' && char <= '8':
				row.WriteString(strings.Repeat(".", int(char-'0')))
			case strings.ContainsRune("pnbrqkPNBRQK", char):
				row.WriteRune(char)
			default:
				return nil, fmt.Errorf("invalid placement character %q in rank %d", char, i)
			}
		}
		if row.Len() != boardWidth {
			return nil, fmt.Errorf("rank %d has %d squares, want %d", i, row.Len(), boardWidth)
		}
		rows = append(rows, row.String())
	}
	return rows, nil
}

// RenderBoard draws a placement with square indices on the edges, since
// moves are entered as indices. Flipped boards are drawn from square 63.
func RenderBoard(w io.Writer, placement string, flipped bool) error {
	rows, err := expandPlacement(placement)
	if err != nil {
		return err
	}

	order := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if flipped {
		order = []int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	var header strings.Builder
	header.WriteString("    ")
	for _, file := range order {
		fmt.Fprintf(&header, "%3d", file)
	}
	fmt.Fprintln(w, Paint(Cyan, header.String()))

	for _, rank := range order {
		fmt.Fprint(w, Paint(Cyan, fmt.Sprintf("%4d", rank*boardWidth)))
		for _, file := range order {
			char := rows[rank][file]
			switch {
			case char == '.':
				fmt.Fprint(w, "  .")
			case char >= 'A' && char <= 'Z':
				// White pieces
				fmt.Fprint(w, "  "+Paint(Blue, string(char)))
			default:
				fmt.Fprint(w, "  "+Paint(Red, string(char)))
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
