package converter

import "github.com/piprate/json-gold/ld"

// SubjectStack holds the blank nodes of the objects currently being walked,
// outermost first. The top is the subject of any triple emitted at the
// current nesting level.
type SubjectStack struct {
	items []ld.BlankNode
}

// Push makes subject the current subject.
func (s *SubjectStack) Push(subject ld.BlankNode) {
	s.items = append(s.items, subject)
}

// Pop discards the current subject. Popping an empty stack is a bug in the
// caller and panics.
func (s *SubjectStack) Pop() {
	if len(s.items) == 0 {
		panic("converter: pop from empty subject stack")
	}
	s.items = s.items[:len(s.items)-1]
}

// Current returns the top of the stack, if any.
func (s *SubjectStack) Current() (ld.BlankNode, bool) {
	if len(s.items) == 0 {
		return ld.BlankNode{}, false
	}
	return s.items[len(s.items)-1], true
}

// Depth returns the number of open objects.
func (s *SubjectStack) Depth() int { return len(s.items) }
