package vocabid

import (
	"errors"
	"testing"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

func TestAllocator_NoIntraBatchCollision(t *testing.T) {
	t.Parallel()

	a := NewAllocator([]string{"0100001", "0100002"}, nil)
	seen := map[string]bool{"0100001": true, "0100002": true}
	for i := 0; i < 50; i++ {
		id, err := a.Next(domain.GradePrimary1)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestAllocator_Monotonic(t *testing.T) {
	t.Parallel()

	a := NewAllocator(nil, nil)
	prev := 0
	for i := 0; i < 10; i++ {
		id, err := a.Next(domain.GradeJunior7)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		p, _ := ParseID(id)
		if p.Sequence <= prev {
			t.Fatalf("sequence %d not greater than %d", p.Sequence, prev)
		}
		prev = p.Sequence
	}
}

func TestAllocator_HighWaterPreventsReuse(t *testing.T) {
	t.Parallel()

	// 0100003 was issued and later deleted.
	a := NewAllocator([]string{"0100001"}, map[string]int{"01": 3})
	id, err := a.Next(domain.GradePrimary1)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if id != "0100004" {
		t.Errorf("Next() = %s, want 0100004", id)
	}
	if hw := a.HighWater(); hw["01"] != 4 {
		t.Errorf("HighWater()[01] = %d, want 4", hw["01"])
	}
}

func TestAllocator_ExistingAboveHighWater(t *testing.T) {
	t.Parallel()

	// Manual edits can push ids past the stored mark.
	a := NewAllocator([]string{"0200010"}, map[string]int{"02": 2})
	id, _ := a.Next(domain.GradePrimary2)
	if id != "0200011" {
		t.Errorf("Next() = %s, want 0200011", id)
	}
}

func TestAllocator_Errors(t *testing.T) {
	t.Parallel()

	a := NewAllocator([]string{"0999999"}, nil)
	if _, err := a.Next(domain.GradeJunior9); !errors.Is(err, ErrPartitionExhausted) {
		t.Errorf("expected ErrPartitionExhausted, got %v", err)
	}
	if _, err := a.Next("kindergarten"); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("expected ErrInvalidGrade, got %v", err)
	}
}
