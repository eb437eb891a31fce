package conversation

// Store is the append-only conversation log. The zero value is ready to use.
type Store struct {
	turns []Turn
}

// Append adds a turn to the end of the log and returns the updated sequence.
// The backing array is never shared with an earlier copy of the Store, so a
// Store value captured before the append keeps its old contents.
func (s *Store) Append(turn Turn) []Turn {
	turn.Citations = cloneCitations(turn.Citations)
	s.turns = append(s.turns[:len(s.turns):len(s.turns)], turn)
	return s.Turns()
}

// Turns returns a copy of the current sequence in chronological order.
func (s *Store) Turns() []Turn {
	return append([]Turn(nil), s.turns...)
}

// Len reports the number of turns.
func (s *Store) Len() int {
	return len(s.turns)
}
