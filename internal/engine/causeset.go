package engine

import "github.com/miradorstack/enginewatch/internal/models"

// CauseSet is an insertion-ordered set of failure causes. The first
// detection of a cause fixes its position.
type CauseSet struct {
	order []models.FailureCause
	seen  map[models.FailureCause]struct{}
}

// Add appends causes not already present; CauseNone is ignored.
func (s *CauseSet) Add(causes ...models.FailureCause) {
	if s.seen == nil {
		s.seen = make(map[models.FailureCause]struct{}, len(causes))
	}
	for _, cause := range causes {
		if cause.IsNone() {
			continue
		}
		if _, ok := s.seen[cause]; ok {
			continue
		}
		s.seen[cause] = struct{}{}
		s.order = append(s.order, cause)
	}
}

// Contains reports whether cause was added.
func (s *CauseSet) Contains(cause models.FailureCause) bool {
	_, ok := s.seen[cause]
	return ok
}

// Len returns the number of distinct causes.
func (s *CauseSet) Len() int { return len(s.order) }

// Slice returns the causes in first-detection order.
func (s *CauseSet) Slice() []models.FailureCause {
	if len(s.order) == 0 {
		return nil
	}
	return append([]models.FailureCause(nil), s.order...)
}
