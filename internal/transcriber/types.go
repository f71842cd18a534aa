package transcriber

import "context"

// Transcriber — контракт распознавания речи по каноничному аудио.
// Реализации подставляются через интерфейс, чтобы тесты могли работать
// с детерминированной заглушкой вместо внешнего сервиса.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
