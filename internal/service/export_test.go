package service

// OpenSessions reports how many board sessions are held in memory.
func (s *DeckService) OpenSessions() int {
	return s.sessions.count()
}
