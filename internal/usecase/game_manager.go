package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	DefaultThinkingDelay = 500 * time.Millisecond
	DefaultWinnerDisplay = 3 * time.Second

	subscriberBuffer = 16
)

var (
	ErrManagerClosed  = errors.New("game manager is closed")
	ErrInvalidBotMove = errors.New("bot chose an unavailable cell")
)

type botService interface {
	MakeTurn(board entity.Board) (int, error)
}

// Settings controls the pacing of the computer opponent.
type Settings struct {
	ThinkingDelay time.Duration
	WinnerDisplay time.Duration
}

type subscriber struct {
	ch        chan entity.Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

// GameManager owns the board and the session state of one human against the computer.
type GameManager struct {
	logger   *slog.Logger
	clock    clockwork.Clock
	bot      botService
	settings Settings

	mu            sync.Mutex
	state         entity.Snapshot
	computerTimer clockwork.Timer
	winnerTimer   clockwork.Timer
	subs          map[*subscriber]struct{}
	closed        bool
}

func NewGameManager(logger *slog.Logger, clock clockwork.Clock, bot botService, settings Settings) *GameManager {
	sessionID := uuid.NewString()

	return &GameManager{
		logger:   logger.With("component", "game_manager", "session", sessionID),
		clock:    clock,
		bot:      bot,
		settings: settings,

		state: entity.NewSnapshot(sessionID),
		subs:  make(map[*subscriber]struct{}),
	}
}

// Snapshot returns the current state.
func (that *GameManager) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

// SubmitMove places Cross on the 1-based cell. Moves that are not allowed
// right now are ignored and the unchanged state is returned.
func (that *GameManager) SubmitMove(cellNo int) entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.applyHumanMove(cellNo - 1); err != nil {
		that.logger.Debug("move ignored", "cell", cellNo, "reason", err)
	}

	return that.state
}

// Restart clears the board for a new round. Win and draw counters are kept.
func (that *GameManager) Restart() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		that.logger.Debug("restart ignored", "reason", ErrManagerClosed)
		return that.state
	}

	that.stopTimers()

	previous := that.state
	that.state = entity.NewSnapshot(previous.SessionID)
	that.state.Round = previous.Round + 1
	that.state.Event = entity.EventRestarted
	that.state.Player1Count = previous.Player1Count
	that.state.Player2Count = previous.Player2Count
	that.state.DrawCount = previous.DrawCount

	that.logger.Info("round restarted", "round", that.state.Round)
	that.publish()

	return that.state
}

// Subscribe streams every new snapshot until ctx is done or the returned func is called.
// A subscriber that does not keep up is dropped and its channel closed.
func (that *GameManager) Subscribe(ctx context.Context) (<-chan entity.Snapshot, func()) {
	sub := &subscriber{
		ch:   make(chan entity.Snapshot, subscriberBuffer),
		done: make(chan struct{}),
	}

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	that.subs[sub] = struct{}{}
	that.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			that.mu.Lock()
			delete(that.subs, sub)
			that.mu.Unlock()
			sub.close()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	return sub.ch, unsubscribe
}

// Close stops pending timers and ends all subscriptions.
func (that *GameManager) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	that.stopTimers()

	for sub := range that.subs {
		sub.close()
		delete(that.subs, sub)
	}
}

func (that *GameManager) applyHumanMove(cell int) error {
	switch {
	case that.closed:
		return ErrManagerClosed
	case cell < 0 || cell >= entity.BoardSize:
		return apperror.ErrInvalidCell
	case that.state.IsRoundOver():
		return apperror.ErrRoundOver
	case !that.state.IsHumanTurn():
		return apperror.ErrNotYourTurn
	case that.state.Board[cell] != entity.Empty:
		return apperror.ErrCellOccupied
	}

	that.state.Board[cell] = entity.Cross
	that.updateGameState(entity.Cross)

	if that.state.IsComputerTurn() {
		round := that.state.Round
		that.computerTimer = that.clock.AfterFunc(that.settings.ThinkingDelay, func() {
			that.playComputerTurn(round)
		})
	}

	that.publish()

	return nil
}

// playComputerTurn runs when the thinking delay of round has passed.
func (that *GameManager) playComputerTurn(round int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || that.state.Round != round || !that.state.IsComputerTurn() {
		return
	}

	that.computerTimer = nil

	cell, err := that.bot.MakeTurn(that.state.Board)
	if err != nil {
		that.logger.Error("computer could not move", "round", round, "error", err)
		return
	}

	if cell < 0 || cell >= entity.BoardSize || that.state.Board[cell] != entity.Empty {
		that.logger.Error("computer could not move", "round", round, "cell", cell, "error", ErrInvalidBotMove)
		return
	}

	that.state.Board[cell] = entity.Circle
	that.updateGameState(entity.Circle)
	that.publish()
}

// clearAnnouncement ends the winner display window of round.
func (that *GameManager) clearAnnouncement(round int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || that.state.Round != round || !that.state.IsWinner {
		return
	}

	that.winnerTimer = nil
	that.state.IsWinner = false
	that.state.Event = entity.EventAnnouncementCleared
	that.publish()
}

// updateGameState evaluates the board after mark has moved. The caller publishes.
func (that *GameManager) updateGameState(mark entity.Cell) {
	switch {
	case entity.IsWinningLine(that.state.Board, mark):
		that.state.Phase = entity.PhaseRoundOver
		that.state.Result = entity.ResultWin
		that.state.Winner = mark
		that.state.CurrentTurn = entity.Empty
		that.state.TurnText = entity.WinText(mark)
		that.state.ResultColor = entity.ColorFor(mark)
		that.state.IsWinner = true
		that.state.Event = entity.EventPlayerWon

		if mark == entity.Cross {
			that.state.Player1Count++
		} else {
			that.state.Player2Count++
		}

		round := that.state.Round
		that.winnerTimer = that.clock.AfterFunc(that.settings.WinnerDisplay, func() {
			that.clearAnnouncement(round)
		})

		that.logger.Info("round won", "round", round, "winner", mark.String(), "board", that.state.Board.String())
	case entity.IsFull(that.state.Board):
		that.state.Phase = entity.PhaseRoundOver
		that.state.Result = entity.ResultDraw
		that.state.CurrentTurn = entity.Empty
		that.state.TurnText = entity.TextDraw
		that.state.Event = entity.EventRoundDraw
		that.state.DrawCount++

		that.logger.Info("round drawn", "round", that.state.Round, "board", that.state.Board.String())
	default:
		next := mark.Opponent()

		that.state.CurrentTurn = next
		that.state.TurnText = entity.TurnText(next)
		that.state.ResultColor = entity.ColorFor(next)
		that.state.Event = entity.EventMoveApplied

		if next == entity.Circle {
			that.state.Phase = entity.PhaseComputerTurn
		} else {
			that.state.Phase = entity.PhaseHumanTurn
		}
	}
}

func (that *GameManager) stopTimers() {
	if that.computerTimer != nil {
		that.computerTimer.Stop()
		that.computerTimer = nil
	}

	if that.winnerTimer != nil {
		that.winnerTimer.Stop()
		that.winnerTimer = nil
	}
}

// publish hands the current state to every subscriber without blocking.
func (that *GameManager) publish() {
	for sub := range that.subs {
		select {
		case sub.ch <- that.state:
		default:
			that.logger.Warn("dropping slow subscriber")
			sub.close()
			delete(that.subs, sub)
		}
	}
}
