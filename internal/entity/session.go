package entity

// Phase is the turn state of the current round.
type Phase string

const (
	PhaseHumanTurn    Phase = "human_turn"
	PhaseComputerTurn Phase = "computer_turn"
	PhaseRoundOver    Phase = "round_over"
)

// Result is the category the presentation layer renders.
type Result string

const (
	ResultOngoing Result = "ongoing"
	ResultWin     Result = "win"
	ResultDraw    Result = "draw"
)

// Color is the display colour of the turn text.
type Color string

const (
	ColorHuman    Color = "blue"
	ColorComputer Color = "magenta"
)

// Event names the transition that produced a snapshot.
type Event string

const (
	EventSessionStarted      Event = "session_started"
	EventMoveApplied         Event = "move_applied"
	EventPlayerWon           Event = "player_won"
	EventRoundDraw           Event = "round_draw"
	EventAnnouncementCleared Event = "announcement_cleared"
	EventRestarted           Event = "restarted"
)

const (
	TextYourTurn     = "Your Turn"
	TextComputerTurn = "Computer's Turn"
	TextYouWon       = "You WON!"
	TextComputerWon  = "Computer WON!"
	TextDraw         = "Draw Game"
)

// Snapshot is an immutable view of a session after one transition.
type Snapshot struct {
	SessionID    string `json:"session_id"`
	Round        int    `json:"round"`
	Event        Event  `json:"event"`
	Board        Board  `json:"board"`
	Phase        Phase  `json:"phase"`
	Winner       Cell   `json:"winner"`
	CurrentTurn  Cell   `json:"current_turn"`
	TurnText     string `json:"turn_text"`
	ResultColor  Color  `json:"result_color"`
	Result       Result `json:"result"`
	Player1Count int    `json:"player1_count"`
	Player2Count int    `json:"player2_count"`
	DrawCount    int    `json:"draw_count"`
	IsWinner     bool   `json:"is_winner"`
}

// NewSnapshot returns the state of a freshly created session.
func NewSnapshot(sessionID string) Snapshot {
	return Snapshot{
		SessionID:   sessionID,
		Round:       1,
		Event:       EventSessionStarted,
		Phase:       PhaseHumanTurn,
		CurrentTurn: Cross,
		TurnText:    TextYourTurn,
		ResultColor: ColorHuman,
		Result:      ResultOngoing,
	}
}

func (that Snapshot) IsRoundOver() bool {
	return that.Phase == PhaseRoundOver
}

func (that Snapshot) IsHumanTurn() bool {
	return that.Phase == PhaseHumanTurn
}

func (that Snapshot) IsComputerTurn() bool {
	return that.Phase == PhaseComputerTurn
}

// WinText returns the announcement for a round won by winner.
func WinText(winner Cell) string {
	if winner == Cross {
		return TextYouWon
	}

	return TextComputerWon
}

// TurnText returns the turn line shown while next is to move.
func TurnText(next Cell) string {
	if next == Circle {
		return TextComputerTurn
	}

	return TextYourTurn
}

// ColorFor returns the display colour associated with a side.
func ColorFor(side Cell) Color {
	if side == Circle {
		return ColorComputer
	}

	return ColorHuman
}
