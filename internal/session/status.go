package session

import "sync"

// Tone marks a status message as positive or negative.
type Tone int

const (
	ToneOK Tone = iota
	ToneBad
)

func (t Tone) String() string {
	if t == ToneBad {
		return "bad"
	}
	return "ok"
}

// Status is one visible status message.
type Status struct {
	Message string
	Tone    Tone
}

// Display shows status messages to the user.
type Display interface {
	Show(Status)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Status)

func (f DisplayFunc) Show(s Status) { f(s) }

// StatusLine holds at most one status; showing a new one replaces it.
type StatusLine struct {
	mu      sync.Mutex
	current Status
	set     bool
}

func (l *StatusLine) Show(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = s
	l.set = true
}

// Current returns the displayed status, if any.
func (l *StatusLine) Current() (Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.set
}
