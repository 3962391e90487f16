package entity

const (
	StateIdle        = "idle"
	StateInProgress  = "in_progress"
	StateRoundOver   = "round_over"
	StateSessionOver = "session_over"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	ModeHumanVsHuman    = "pvp"
	ModeHumanVsComputer = "ai"
)

const (
	ActorHuman    = "human"
	ActorComputer = "computer"
)

const (
	// ChampionThreshold is the number of round wins that ends a session.
	ChampionThreshold = 3

	// ComputerMark is the mark the computer plays in human-vs-computer mode.
	ComputerMark = PlayerO
)

// WinCombos lists every row, column and diagonal of the board.
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

// Board holds the nine cells in row-major order.
type Board [9]string

// Score counts the rounds won by each side within one session.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

type Session struct {
	ID       string `json:"id"`
	Mode     string `json:"mode"`
	Board    Board  `json:"board"`
	Turn     string `json:"turn"`
	Active   bool   `json:"active"`
	State    string `json:"state"`
	Score    Score  `json:"score"`
	Winner   string `json:"winner"`
	Champion string `json:"champion,omitempty"`
	Message  string `json:"message"`

	// Epoch changes on every start or reset so that delayed tasks
	// scheduled against an older board can detect they are stale.
	Epoch uint64 `json:"epoch"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		State: StateIdle,
		Turn:  PlayerX,
	}
}

func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// HasLine reports whether mark occupies all three cells of any win combo.
func (that *Board) HasLine(mark string) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}

	return false
}

func (that *Board) Count(mark string) int {
	var n int
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}

	return n
}

func (that *Session) IsIdle() bool {
	return that.State == StateIdle
}

func (that *Session) IsInProgress() bool {
	return that.State == StateInProgress
}

func (that *Session) IsRoundOver() bool {
	return that.State == StateRoundOver
}

func (that *Session) IsSessionOver() bool {
	return that.State == StateSessionOver
}

func (that *Session) IsWithComputer() bool {
	return that.Mode == ModeHumanVsComputer
}

// IsComputerTurn reports whether the computer is expected to move next.
func (that *Session) IsComputerTurn() bool {
	return that.IsWithComputer() && that.IsInProgress() && that.Active && that.Turn == ComputerMark
}

func (that *Session) RoundWins(mark string) int {
	switch mark {
	case PlayerX:
		return that.Score.X
	case PlayerO:
		return that.Score.O
	default:
		return 0
	}
}

func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func IsValidMark(mark string) bool {
	return mark == PlayerX || mark == PlayerO
}

func IsValidMode(mode string) bool {
	return mode == ModeHumanVsHuman || mode == ModeHumanVsComputer
}
