package vocabid

import "github.com/heartmarshall/hengshui-vocab/internal/domain"

// Allocator hands out identifiers for a batch of inserts. It starts from the
// larger of the existing identifiers and a persisted high-water mark, and it
// remembers every identifier it issued, so a single batch never collides with
// itself and deleted identifiers are never reissued.
type Allocator struct {
	high map[string]int
}

// NewAllocator builds an allocator over the identifiers currently in use and
// the per-code high-water marks recorded so far. highWater may be nil.
func NewAllocator(existingIDs []string, highWater map[string]int) *Allocator {
	a := &Allocator{high: make(map[string]int, len(mappings))}
	for code, seq := range highWater {
		a.high[code] = seq
	}
	for _, id := range existingIDs {
		p, err := ParseID(id)
		if err != nil || p.Grade == "" {
			continue
		}
		if p.Sequence > a.high[p.GradeCode] {
			a.high[p.GradeCode] = p.Sequence
		}
	}
	return a
}

// Next issues the next identifier for grade.
func (a *Allocator) Next(grade domain.Grade) (string, error) {
	code, err := CodeForGrade(grade)
	if err != nil {
		return "", err
	}
	id, err := next(code, a.high[code])
	if err != nil {
		return "", err
	}
	a.high[code]++
	return id, nil
}

// HighWater returns a copy of the per-code high-water marks, suitable for
// persisting alongside the document.
func (a *Allocator) HighWater() map[string]int {
	out := make(map[string]int, len(a.high))
	for code, seq := range a.high {
		if seq > 0 {
			out[code] = seq
		}
	}
	return out
}
