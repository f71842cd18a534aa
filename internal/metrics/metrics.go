package metrics

import (
	"sync"
	"time"
)

// Metrics считает прогоны конвейера и вызовы внешних сервисов
type Metrics struct {
	mu                      sync.RWMutex
	uploadsStarted          int64
	uploadsCompleted        int64
	uploadsFailed           int64
	transcriptionCalls      int64
	transcriptionSuccessful int64
	refinementCalls         int64
	refinementSuccessful    int64
	refinementFallbacks     int64
	lastUpdateTime          time.Time
}

// Snapshot — неизменяемый срез счетчиков для выдачи наружу
type Snapshot struct {
	UploadsStarted          int64     `json:"uploads_started"`
	UploadsCompleted        int64     `json:"uploads_completed"`
	UploadsFailed           int64     `json:"uploads_failed"`
	TranscriptionCalls      int64     `json:"transcription_calls"`
	TranscriptionSuccessful int64     `json:"transcription_successful"`
	RefinementCalls         int64     `json:"refinement_calls"`
	RefinementSuccessful    int64     `json:"refinement_successful"`
	RefinementFallbacks     int64     `json:"refinement_fallbacks"`
	LastUpdateTime          time.Time `json:"last_update_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		lastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementUploadsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsStarted++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementUploadsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsCompleted++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementUploadsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsFailed++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTranscriptionCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcriptionCalls++
	if success {
		m.transcriptionSuccessful++
	}
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementRefinementCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refinementCalls++
	if success {
		m.refinementSuccessful++
	}
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementRefinementFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refinementFallbacks++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		UploadsStarted:          m.uploadsStarted,
		UploadsCompleted:        m.uploadsCompleted,
		UploadsFailed:           m.uploadsFailed,
		TranscriptionCalls:      m.transcriptionCalls,
		TranscriptionSuccessful: m.transcriptionSuccessful,
		RefinementCalls:         m.refinementCalls,
		RefinementSuccessful:    m.refinementSuccessful,
		RefinementFallbacks:     m.refinementFallbacks,
		LastUpdateTime:          m.lastUpdateTime,
	}
}
