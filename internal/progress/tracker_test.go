package progress

import (
	"testing"

	"interview-recorder/internal/outline"
	"interview-recorder/internal/store"
)

func newTestSet(t *testing.T, questions int) (*store.Service, *Tracker) {
	t.Helper()
	s := store.New(t.TempDir())

	var topics []outline.Topic
	if questions > 0 {
		texts := make([]string, questions)
		for i := range texts {
			texts[i] = "Вопрос"
		}
		topics = []outline.Topic{{Topic: "Тема", Questions: texts}}
	}
	if err := s.SaveOutline("demo", outline.Outline{Topics: topics}); err != nil {
		t.Fatalf("SaveOutline: %v", err)
	}
	return s, New(s)
}

func TestFirstUnansweredScansInOrder(t *testing.T) {
	s, tr := newTestSet(t, 5)

	id, err := tr.FirstUnanswered("demo")
	if err != nil {
		t.Fatalf("FirstUnanswered: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected 1 for untouched set, got %d", id)
	}

	// Ответы на 1 и 3: первым неотвеченным остается 2
	for _, answered := range []int{1, 3} {
		if err := s.WriteAudio("demo", answered, []byte("audio")); err != nil {
			t.Fatalf("WriteAudio: %v", err)
		}
	}
	id, err = tr.FirstUnanswered("demo")
	if err != nil {
		t.Fatalf("FirstUnanswered: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected 2, got %d", id)
	}
}

func TestFirstUnansweredAllAnswered(t *testing.T) {
	s, tr := newTestSet(t, 3)

	for id := 1; id <= 3; id++ {
		if err := s.WriteAudio("demo", id, []byte("audio")); err != nil {
			t.Fatalf("WriteAudio: %v", err)
		}
	}
	id, err := tr.FirstUnanswered("demo")
	if err != nil {
		t.Fatalf("FirstUnanswered: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected last question id 3, got %d", id)
	}
}

func TestFirstUnansweredEmptyOutline(t *testing.T) {
	_, tr := newTestSet(t, 0)

	id, err := tr.FirstUnanswered("demo")
	if err != nil {
		t.Fatalf("FirstUnanswered: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected degenerate default 1, got %d", id)
	}
}

func TestCompletedCountByRecordMarker(t *testing.T) {
	s, tr := newTestSet(t, 5)

	count, err := tr.CompletedCount("demo")
	if err != nil {
		t.Fatalf("CompletedCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}

	for _, id := range []int{1, 2, 4} {
		if err := s.WriteTranscript("demo", id, "q", "a"); err != nil {
			t.Fatalf("WriteTranscript: %v", err)
		}
	}
	count, err = tr.CompletedCount("demo")
	if err != nil {
		t.Fatalf("CompletedCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 records, got %d", count)
	}
}

func TestTotalCount(t *testing.T) {
	_, tr := newTestSet(t, 4)

	total, err := tr.TotalCount("demo")
	if err != nil {
		t.Fatalf("TotalCount: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4, got %d", total)
	}
}
