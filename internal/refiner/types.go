package refiner

import "context"

// Refiner — контракт чистки сырого транскрипта с учетом текста вопроса.
// Чистка — необязательный этап: при сбое конвейер использует сырой текст.
type Refiner interface {
	Refine(ctx context.Context, questionText, rawTranscript string) (string, error)
}
