package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"interview-recorder/internal/metrics"
	"interview-recorder/internal/outline"
	"interview-recorder/internal/refiner"
	"interview-recorder/internal/store"
	"interview-recorder/internal/transcriber"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ErrTranscriptionFailed возвращается при сбое распознавания речи;
// аудио к этому моменту уже сохранено и остается на месте
var ErrTranscriptionFailed = errors.New("transcription failed")

// Normalizer приводит загруженное аудио к каноничному формату
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte) ([]byte, error)
}

// Service проводит одну запись через все этапы: проверка, конвертация,
// сохранение аудио, распознавание, чистка, сохранение транскрипта
type Service struct {
	store       *store.Service
	normalizer  Normalizer
	transcriber transcriber.Transcriber
	refiner     refiner.Refiner
	metrics     *metrics.Metrics
	sem         *semaphore.Weighted
}

// Result описывает итог одного прогона конвейера
type Result struct {
	RunID      string `json:"run_id"`
	Transcript string `json:"transcript"`
	Refined    bool   `json:"refined"`
}

// New создает конвейер. Refiner может быть nil — тогда этап чистки
// пропускается и сохраняется сырой транскрипт. maxConcurrentCalls
// ограничивает число одновременных обращений к внешним сервисам
// по всем наборам сразу.
func New(st *store.Service, n Normalizer, t transcriber.Transcriber, r refiner.Refiner, m *metrics.Metrics, maxConcurrentCalls int64) *Service {
	if maxConcurrentCalls < 1 {
		maxConcurrentCalls = 1
	}
	return &Service{
		store:       st,
		normalizer:  n,
		transcriber: t,
		refiner:     r,
		metrics:     m,
		sem:         semaphore.NewWeighted(maxConcurrentCalls),
	}
}

// Submit обрабатывает одну загруженную запись для пары (набор, вопрос).
// После успешного сохранения аудио сбои последующих этапов не откатывают
// запись: ответ без транскрипта — допустимое видимое состояние.
func (s *Service) Submit(ctx context.Context, setName string, id int, raw []byte) (Result, error) {
	result := Result{RunID: uuid.New().String()}
	s.metrics.IncrementUploadsStarted()

	canonical, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		s.metrics.IncrementUploadsFailed()
		return result, err
	}

	// Пара (набор, вопрос) обрабатывается строго по одному прогону за раз
	unlock := s.store.Lock(setName, id)
	defer unlock()

	if err := s.store.WriteAudio(setName, id, canonical); err != nil {
		s.metrics.IncrementUploadsFailed()
		return result, err
	}

	o, err := s.store.LoadOutline(setName)
	if err != nil {
		s.metrics.IncrementUploadsFailed()
		return result, err
	}
	question, err := outline.Resolve(o, id)
	if err != nil {
		// Аудио уже сохранено, сообщаем только о недостающем вопросе
		s.metrics.IncrementUploadsFailed()
		return result, err
	}

	rawText, err := s.transcribe(ctx, canonical)
	if err != nil {
		s.metrics.IncrementUploadsFailed()
		return result, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	text, refined := s.refine(ctx, result.RunID, question.Text, rawText)

	if err := s.store.WriteTranscript(setName, id, question.Text, text); err != nil {
		s.metrics.IncrementUploadsFailed()
		return result, err
	}

	result.Transcript = text
	result.Refined = refined
	s.metrics.IncrementUploadsCompleted()
	return result, nil
}

func (s *Service) transcribe(ctx context.Context, canonical []byte) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	text, err := s.transcriber.Transcribe(ctx, canonical)
	s.metrics.IncrementTranscriptionCall(err == nil)
	return text, err
}

// refine пытается вычистить сырой транскрипт. Любой сбой чистки — не повод
// ронять прогон: возвращается сырой текст и отметка, что чистки не было.
func (s *Service) refine(ctx context.Context, runID, questionText, rawText string) (string, bool) {
	if s.refiner == nil {
		return rawText, false
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		log.Printf("Чистка транскрипта прервана (прогон %s): %v, используем сырой текст", runID, err)
		s.metrics.IncrementRefinementFallback()
		return rawText, false
	}
	defer s.sem.Release(1)

	cleaned, err := s.refiner.Refine(ctx, questionText, rawText)
	s.metrics.IncrementRefinementCall(err == nil)
	if err != nil {
		log.Printf("Чистка транскрипта не удалась (прогон %s): %v, используем сырой текст", runID, err)
		s.metrics.IncrementRefinementFallback()
		return rawText, false
	}
	return cleaned, true
}
