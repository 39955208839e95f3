package hotel

// Sequence hands out increasing identifiers. Each catalog owns one, so two
// hotels never share counters.
type Sequence struct {
	last int
}

// Next returns the next identifier.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Observe moves the sequence past an identifier assigned elsewhere.
func (s *Sequence) Observe(id int) {
	if id > s.last {
		s.last = id
	}
}

// Last returns the highest identifier handed out or observed.
func (s *Sequence) Last() int {
	return s.last
}
