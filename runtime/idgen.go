package runtime

import "fmt"

// IDGen hands out identifiers for records kept in a session.
type IDGen interface {
	NextID(class string) string
}

// SimpleIDGen numbers IDs sequentially per generator. It is not safe for
// concurrent use; callers serialize access.
type SimpleIDGen struct {
	counter int
}

func (s *SimpleIDGen) NextID(class string) string {
	s.counter += 1
	return fmt.Sprintf("%s-%d", class, s.counter)
}
