package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	e = Empty
	x = Cross
	o = Circle
)

func TestIsWinningLine(t *testing.T) {
	t.Run("Every win combo is detected for both sides", func(t *testing.T) {
		for _, combo := range WinCombos {
			for _, side := range []Cell{Cross, Circle} {
				// Given: a board where side owns exactly one combo
				var board Board
				for _, idx := range combo {
					board[idx] = side
				}

				// Then: the combo is a winning line for side only
				assert.True(t, IsWinningLine(board, side), "combo %v side %s", combo, side)
				assert.False(t, IsWinningLine(board, side.Opponent()), "combo %v side %s", combo, side)
			}
		}
	})

	t.Run("Two in a row is not a win", func(t *testing.T) {
		// Given: Cross has two of the top row
		board := Board{
			x, x, e,
			o, o, e,
			e, e, e,
		}

		// Then: nobody wins
		assert.False(t, IsWinningLine(board, Cross))
		assert.False(t, IsWinningLine(board, Circle))
	})
}

func TestIsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		assert.False(t, IsFull(Board{}))
	})

	t.Run("One empty cell left", func(t *testing.T) {
		board := Board{
			x, o, x,
			o, x, o,
			o, x, e,
		}

		assert.False(t, IsFull(board))
	})

	t.Run("Fully marked board", func(t *testing.T) {
		board := Board{
			x, o, x,
			o, x, o,
			o, x, o,
		}

		assert.True(t, IsFull(board))
	})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  int
	}{
		{
			name:  "empty board",
			board: Board{},
			want:  0,
		},
		{
			name: "circle owns the anti-diagonal",
			board: Board{
				x, x, o,
				e, o, e,
				o, x, e,
			},
			want: WinScore,
		},
		{
			name: "cross owns the middle column",
			board: Board{
				o, x, e,
				e, x, o,
				e, x, e,
			},
			want: LossScore,
		},
		{
			name: "full board without a line",
			board: Board{
				x, o, x,
				x, o, o,
				o, x, x,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: evaluating the board
			score := Evaluate(tt.board)

			// Then: the score matches and agrees with IsWinningLine
			assert.Equal(t, tt.want, score)
			assert.Equal(t, score == WinScore, IsWinningLine(tt.board, Circle))
			assert.Equal(t, score == LossScore, IsWinningLine(tt.board, Cross))
		})
	}
}

func TestEmptyCells(t *testing.T) {
	// Given: a partially marked board
	board := Board{
		x, e, o,
		e, x, e,
		o, e, e,
	}

	// Then: empty indexes are returned in ascending order
	assert.Equal(t, []int{1, 3, 5, 7, 8}, EmptyCells(board))
	assert.Empty(t, EmptyCells(Board{x, o, x, o, x, o, o, x, o}))
}

func TestBoard_Outcome(t *testing.T) {
	t.Run("Ongoing", func(t *testing.T) {
		winner, finished := Board{x, e, e, e, o, e, e, e, e}.Outcome()
		assert.Equal(t, Empty, winner)
		assert.False(t, finished)
	})

	t.Run("Cross wins", func(t *testing.T) {
		winner, finished := Board{x, x, x, o, o, e, e, e, e}.Outcome()
		assert.Equal(t, Cross, winner)
		assert.True(t, finished)
	})

	t.Run("Circle wins on the last cell", func(t *testing.T) {
		winner, finished := Board{x, x, o, x, o, x, o, o, x}.Outcome()
		assert.Equal(t, Circle, winner)
		assert.True(t, finished)
	})

	t.Run("Draw", func(t *testing.T) {
		winner, finished := Board{x, o, x, x, o, o, o, x, x}.Outcome()
		assert.Equal(t, Empty, winner)
		assert.True(t, finished)
	})
}

func TestBoard_JSON(t *testing.T) {
	// Given: a board with both marks
	board := Board{x, e, o, e, e, e, e, e, e}

	// When: encoding and decoding it
	data, err := json.Marshal(board)
	require.NoError(t, err)

	// Then: cells use their text form
	assert.JSONEq(t, `["X","","O","","","","","",""]`, string(data))

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, board, decoded)

	// Then: unknown marks are rejected
	require.ErrorIs(t, json.Unmarshal([]byte(`["Z","","","","","","","",""]`), &decoded), ErrUnknownCell)
}

func TestBoard_String(t *testing.T) {
	assert.Equal(t, "X-O/-X-/--O", Board{x, e, o, e, x, e, e, e, o}.String())
}

func TestNewSnapshot(t *testing.T) {
	// When: a session snapshot is created
	snap := NewSnapshot("session-1")

	// Then: it matches the start-of-session defaults
	expected := Snapshot{
		SessionID:   "session-1",
		Round:       1,
		Event:       EventSessionStarted,
		Phase:       PhaseHumanTurn,
		CurrentTurn: Cross,
		TurnText:    TextYourTurn,
		ResultColor: ColorHuman,
		Result:      ResultOngoing,
	}
	require.Equal(t, expected, snap)
	assert.True(t, snap.IsHumanTurn())
	assert.False(t, snap.IsComputerTurn())
	assert.False(t, snap.IsRoundOver())
}

func TestTexts(t *testing.T) {
	assert.Equal(t, TextYouWon, WinText(Cross))
	assert.Equal(t, TextComputerWon, WinText(Circle))
	assert.Equal(t, TextComputerTurn, TurnText(Circle))
	assert.Equal(t, TextYourTurn, TurnText(Cross))
	assert.Equal(t, ColorComputer, ColorFor(Circle))
	assert.Equal(t, ColorHuman, ColorFor(Cross))
}
