package service

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// DefaultMistakeProbability is the chance the bot ignores minimax and plays a random cell.
const DefaultMistakeProbability = 0.4

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	MakeTurn(board entity.Board) (int, error)
}

type botService struct {
	mistakeProbability float64

	mu     sync.Mutex
	random *rand.Rand
}

// NewBotService returns the computer opponent. A nil random source is seeded from the runtime.
func NewBotService(mistakeProbability float64, random *rand.Rand) BotService {
	if random == nil {
		random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint: gosec // game randomness
	}

	return &botService{
		mistakeProbability: mistakeProbability,
		random:             random,
	}
}

// MakeTurn picks the cell Circle plays next. The board itself is not modified.
func (that *botService) MakeTurn(board entity.Board) (int, error) {
	availableCells := entity.EmptyCells(board)
	if len(availableCells) == 0 {
		return -1, ErrNoAvailableMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.random.Float64() < that.mistakeProbability {
		return availableCells[that.random.IntN(len(availableCells))], nil
	}

	return FindBestMove(board), nil
}

// FindBestMove returns the empty cell with the highest minimax score for Circle,
// the lowest index on ties, or -1 when the board is full.
func FindBestMove(board entity.Board) int {
	bestScore := math.MinInt
	bestMove := -1

	for _, cell := range entity.EmptyCells(board) {
		next := board
		next[cell] = entity.Circle

		if score := minimax(next, 0, false); score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	return bestMove
}

// minimax scores board for Circle. Faster wins and slower losses score better.
// The board is passed by value, so each ply works on its own copy.
func minimax(board entity.Board, depth int, isMax bool) int {
	switch score := entity.Evaluate(board); score {
	case entity.WinScore:
		return score - depth
	case entity.LossScore:
		return score + depth
	}

	if entity.IsFull(board) {
		return 0
	}

	if isMax {
		best := math.MinInt
		for _, cell := range entity.EmptyCells(board) {
			next := board
			next[cell] = entity.Circle
			best = max(best, minimax(next, depth+1, false))
		}

		return best
	}

	best := math.MaxInt
	for _, cell := range entity.EmptyCells(board) {
		next := board
		next[cell] = entity.Cross
		best = min(best, minimax(next, depth+1, true))
	}

	return best
}
