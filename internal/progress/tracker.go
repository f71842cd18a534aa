package progress

import (
	"strings"

	"interview-recorder/internal/outline"
	"interview-recorder/internal/store"
)

// Tracker вычисляет состояние прохождения набора по артефактам хранилища
type Tracker struct {
	store *store.Service
}

func New(s *store.Service) *Tracker {
	return &Tracker{store: s}
}

// FirstUnanswered возвращает номер первого вопроса без записанного ответа.
// Если ответы есть на все вопросы — номер последнего; если вопросов нет
// вообще — 1, как вырожденное значение по умолчанию.
func (t *Tracker) FirstUnanswered(setName string) (int, error) {
	o, err := t.store.LoadOutline(setName)
	if err != nil {
		return 1, err
	}

	total := outline.TotalCount(o)
	if total == 0 {
		return 1, nil
	}

	for id := 1; id <= total; id++ {
		if !t.store.HasAudio(setName, id) {
			return id, nil
		}
	}
	return total, nil
}

// CompletedCount считает сохраненные транскрипты по маркеру начала записи,
// а не по числу файлов: файл без маркера просто не учитывается
func (t *Tracker) CompletedCount(setName string) (int, error) {
	all, err := t.store.AllTranscripts(setName)
	if err != nil {
		return 0, err
	}
	return strings.Count(all, "<topic>"), nil
}

// TotalCount возвращает общее количество вопросов набора
func (t *Tracker) TotalCount(setName string) (int, error) {
	o, err := t.store.LoadOutline(setName)
	if err != nil {
		return 0, err
	}
	return outline.TotalCount(o), nil
}
