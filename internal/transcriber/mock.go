package transcriber

import "context"

// Mock — детерминированная заглушка распознавания для тестов
type Mock struct {
	Text  string
	Err   error
	Calls int
}

func (m *Mock) Transcribe(ctx context.Context, audio []byte) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
