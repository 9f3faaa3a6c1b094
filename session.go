package mydropbox

// Session records which user, if any, is currently authenticated.
// It is owned by the command loop and is not safe for concurrent use.
type Session struct {
	current *Identity
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// SetIdentity makes username the current identity, replacing any previous one.
func (s *Session) SetIdentity(username string) {
	s.current = &Identity{Username: username}
}

// Clear returns the session to anonymous.
func (s *Session) Clear() {
	s.current = nil
}

func (s *Session) Current() (Identity, bool) {
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// Username returns the current username or "" when anonymous.
func (s *Session) Username() string {
	if s.current == nil {
		return ""
	}
	return s.current.Username
}

func (s *Session) IsAuthenticated() bool {
	return s.current != nil
}
