package selector

// Session holds the per-run state the selector consults: the pending
// pin. It is never persisted. The zero value has no pin.
type Session struct {
	pin string
}

// NewSession returns a session without a pin.
func NewSession() *Session {
	return &Session{}
}

// SetNext pins path for the next eligible selection, replacing any
// previous pin.
func (s *Session) SetNext(path string) {
	s.pin = path
}

// ClearNext drops the pin.
func (s *Session) ClearNext() {
	s.pin = ""
}

// Next returns the pinned path, if any.
func (s *Session) Next() (string, bool) {
	if s == nil || s.pin == "" {
		return "", false
	}
	return s.pin, true
}
