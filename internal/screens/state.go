package screens

import (
	"errors"
	"sync"

	"hobbyhub-client/internal/apiclient"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// ErrBusy is returned when a screen action starts while another call from
// the same screen is still in flight.
var ErrBusy = errors.New("a request is already in progress")

// State is the request phase shared by every screen. The zero value is idle.
// It is safe to read from UI callbacks while a call runs.
type State struct {
	mu    sync.Mutex
	phase Phase
	err   string
}

func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

func (s *State) Loading() bool {
	return s.Phase() == PhaseLoading
}

// Err is the message to show while the screen is in the error phase.
func (s *State) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// DismissError moves an errored screen back to idle. Other phases are left alone.
func (s *State) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseError {
		s.phase = PhaseIdle
		s.err = ""
	}
}

func (s *State) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseLoading {
		return ErrBusy
	}
	s.phase = PhaseLoading
	s.err = ""
	return nil
}

func (s *State) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseError
		s.err = apiclient.ErrorMessage(err)
		return
	}
	s.phase = PhaseSuccess
	s.err = ""
}

// rejected turns a success:false result into an error, using fallback when
// the backend sent no text.
func rejected(msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return errors.New(msg)
}

// Toggles tracks open/closed flags keyed by name: modals by a fixed name,
// row menus by entity ID. The zero value has everything closed.
type Toggles struct {
	mu   sync.Mutex
	open map[string]bool
}

func (t *Toggles) Open(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open == nil {
		t.open = make(map[string]bool)
	}
	t.open[key] = true
}

func (t *Toggles) Close(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.open, key)
}

// Toggle flips key and reports whether it is now open.
func (t *Toggles) Toggle(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open[key] {
		delete(t.open, key)
		return false
	}
	if t.open == nil {
		t.open = make(map[string]bool)
	}
	t.open[key] = true
	return true
}

// Only opens key and closes everything else, or closes key if it was the
// one open. It reports whether key is now open.
func (t *Toggles) Only(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasOpen := t.open[key]
	t.open = make(map[string]bool)
	if !wasOpen {
		t.open[key] = true
	}
	return !wasOpen
}

func (t *Toggles) IsOpen(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open[key]
}

func (t *Toggles) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = nil
}
