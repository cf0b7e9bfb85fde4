package entity

import (
	"errors"
	"fmt"
)

// Cell is the marking state of one board position.
type Cell uint8

const (
	Empty Cell = iota
	Cross      // human
	Circle     // computer
)

const (
	// BoardSize is the number of cells on the board.
	BoardSize = 9

	// WinScore is what Evaluate returns when Circle owns a line.
	WinScore = 10
	// LossScore is what Evaluate returns when Cross owns a line.
	LossScore = -10
)

// ErrUnknownCell is returned when decoding a cell that is not "", "X" or "O".
var ErrUnknownCell = errors.New("unknown cell value")

// WinCombos lists the eight index triples that end a round when owned by one side.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]Cell

func (c Cell) String() string {
	switch c {
	case Cross:
		return "X"
	case Circle:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other side; Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Cross:
		return Circle
	case Circle:
		return Cross
	default:
		return Empty
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*c = Empty
	case "X":
		*c = Cross
	case "O":
		*c = Circle
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCell, text)
	}

	return nil
}

// IsWinningLine reports whether value owns any of the win combos.
func IsWinningLine(board Board, value Cell) bool {
	for _, combo := range WinCombos {
		if board[combo[0]] == value && board[combo[1]] == value && board[combo[2]] == value {
			return true
		}
	}

	return false
}

// IsFull reports whether no empty cell is left.
func IsFull(board Board) bool {
	for _, cell := range board {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Evaluate scores the position from the computer's point of view.
func Evaluate(board Board) int {
	switch {
	case IsWinningLine(board, Circle):
		return WinScore
	case IsWinningLine(board, Cross):
		return LossScore
	default:
		return 0
	}
}

// EmptyCells returns the indexes of all empty cells in ascending order.
func EmptyCells(board Board) []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

// Outcome reports the winner (Empty for a draw or an unfinished round) and
// whether the round is over.
func (that Board) Outcome() (Cell, bool) {
	switch {
	case IsWinningLine(that, Cross):
		return Cross, true
	case IsWinningLine(that, Circle):
		return Circle, true
	case IsFull(that):
		return Empty, true
	default:
		return Empty, false
	}
}

func (that Board) String() string {
	buf := make([]byte, 0, BoardSize+2)
	for i, cell := range that {
		if i > 0 && i%3 == 0 {
			buf = append(buf, '/')
		}

		switch cell {
		case Empty:
			buf = append(buf, '-')
		default:
			buf = append(buf, cell.String()...)
		}
	}

	return string(buf)
}
