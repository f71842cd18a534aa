package refiner

import "context"

// Mock — детерминированная заглушка чистки для тестов
type Mock struct {
	Text  string
	Err   error
	Calls int

	// LastQuestion и LastRaw запоминают аргументы последнего вызова
	LastQuestion string
	LastRaw      string
}

func (m *Mock) Refine(ctx context.Context, questionText, rawTranscript string) (string, error) {
	m.Calls++
	m.LastQuestion = questionText
	m.LastRaw = rawTranscript
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
