package edifact

import (
	"math/rand"
	"sync"
)

// Range of interchange/message reference numbers (seven digits).
const (
	MinReference = 1000000
	MaxReference = 9999999
)

// ReferenceSource hands out the reference number shared by UNB, UNH, UNT
// and UNZ of one message. Implementations must be safe for concurrent use.
type ReferenceSource interface {
	NextReference() int
}

// RandomReferences draws uniformly from [MinReference, MaxReference].
// There is no sequence and no persistence; collisions across runs are
// tolerated.
type RandomReferences struct{}

func (RandomReferences) NextReference() int {
	return MinReference + rand.Intn(MaxReference-MinReference+1)
}

// SequenceReferences returns the given values in order and wraps around.
type SequenceReferences struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceReferences returns a source cycling through values. With no
// values it always returns MinReference.
func NewSequenceReferences(values ...int) *SequenceReferences {
	return &SequenceReferences{values: values}
}

func (s *SequenceReferences) NextReference() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return MinReference
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
