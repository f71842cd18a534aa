package store

import (
	"fmt"
	"sync"
)

// lockTable хранит по мьютексу на каждую пару (набор, номер вопроса)
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{
		locks: make(map[string]*sync.Mutex),
	}
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, exists := t.locks[key]
	if !exists {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	return m
}

// Lock захватывает мьютекс пары (набор, номер вопроса) и возвращает функцию
// освобождения. Конвейер держит его на всё время "удалить старое — записать
// аудио — записать транскрипт", поэтому второй писатель той же пары не может
// перемешать свои записи с первым.
func (s *Service) Lock(setName string, id int) func() {
	m := s.locks.get(fmt.Sprintf("%s/%d", setName, id))
	m.Lock()
	return m.Unlock
}
