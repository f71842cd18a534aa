package outline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() Outline {
	return Outline{
		Topics: []Topic{
			{Topic: "Детство", Questions: []string{"Где вы родились?", "Какая была школа?"}},
			{Topic: "Работа", Questions: []string{"Кем вы работали?"}},
			{Topic: "Семья", Questions: []string{"Расскажите о семье", "Есть ли дети?", "Какие традиции?"}},
		},
	}
}

func TestResolveWalksTopicsInOrder(t *testing.T) {
	tests := []struct {
		ordinal int
		want    Question
	}{
		{1, Question{ID: 1, Text: "Где вы родились?", Topic: "Детство"}},
		{2, Question{ID: 2, Text: "Какая была школа?", Topic: "Детство"}},
		{3, Question{ID: 3, Text: "Кем вы работали?", Topic: "Работа"}},
		{4, Question{ID: 4, Text: "Расскажите о семье", Topic: "Семья"}},
		{6, Question{ID: 6, Text: "Какие традиции?", Topic: "Семья"}},
	}

	for _, tt := range tests {
		got, err := Resolve(sample(), tt.ordinal)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", tt.ordinal, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Resolve(%d) mismatch (-want +got):\n%s", tt.ordinal, diff)
		}
	}
}

func TestResolveOutOfRange(t *testing.T) {
	for _, ordinal := range []int{-1, 0, 7, 100} {
		_, err := Resolve(sample(), ordinal)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%d): expected ErrNotFound, got %v", ordinal, err)
		}
	}
}

func TestTotalCount(t *testing.T) {
	if got := TotalCount(sample()); got != 6 {
		t.Fatalf("expected 6 questions, got %d", got)
	}
	if got := TotalCount(Outline{}); got != 0 {
		t.Fatalf("expected 0 questions for empty outline, got %d", got)
	}
	if got := TotalCount(Outline{Topics: []Topic{{Topic: "Пустая"}}}); got != 0 {
		t.Fatalf("expected 0 questions for topic without questions, got %d", got)
	}
}

func TestResolveEmptyOutline(t *testing.T) {
	_, err := Resolve(Outline{}, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty outline, got %v", err)
	}
}
