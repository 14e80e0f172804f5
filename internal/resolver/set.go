package resolver

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	order []string
	seen  map[string]struct{}
}

// add inserts v and reports whether it was new.
func (s *orderedSet) add(v string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *orderedSet) len() int {
	return len(s.order)
}

// values returns a copy of the members in insertion order, never nil.
func (s *orderedSet) values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
