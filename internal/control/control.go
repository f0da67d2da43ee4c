// Package control turns operator keystrokes into loop commands without blocking.
package control

// Command is an operator request observed by the sampling loop.
type Command int

const (
	None Command = iota
	Quit
	Terminate
)

func (c Command) String() string {
	switch c {
	case Quit:
		return "quit"
	case Terminate:
		return "terminate"
	default:
		return "none"
	}
}

// FromKey maps a single keystroke to a command. Unknown keys are ignored.
func FromKey(ch byte) Command {
	switch ch {
	case 'q':
		return Quit
	case 'k':
		return Terminate
	default:
		return None
	}
}

// Terminal is the platform capability the handler polls. Raw mode here means
// unbuffered input without echo.
type Terminal interface {
	EnableRawMode() error
	DisableRawMode() error
	PollHasInput() (bool, error)
	ReadChar() (byte, error)
	ReadLine() (string, error)
}

// Handler polls a Terminal for pending keystrokes.
type Handler struct {
	term Terminal
}

func NewHandler(term Terminal) *Handler { return &Handler{term: term} }

// Poll returns immediately. It only reads when input is already pending, so
// the read cannot block.
func (h *Handler) Poll() Command {
	ok, err := h.term.PollHasInput()
	if err != nil || !ok {
		return None
	}
	ch, err := h.term.ReadChar()
	if err != nil {
		return None
	}
	return FromKey(ch)
}
