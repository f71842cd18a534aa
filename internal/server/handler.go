package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"interview-recorder/internal/audio"
	"interview-recorder/internal/metrics"
	"interview-recorder/internal/outline"
	"interview-recorder/internal/pipeline"
	"interview-recorder/internal/progress"
	"interview-recorder/internal/store"
)

// maxUploadSize ограничивает размер одной загружаемой записи
const maxUploadSize = 100 << 20

// Handler связывает HTTP маршруты с хранилищем, конвейером и трекером
// прогресса. Состояние "текущего вопроса" на сервере не хранится: каждая
// операция получает имя набора и номер вопроса явными параметрами запроса.
type Handler struct {
	store    *store.Service
	pipeline *pipeline.Service
	tracker  *progress.Tracker
	metrics  *metrics.Metrics
}

func NewHandler(st *store.Service, p *pipeline.Service, t *progress.Tracker, m *metrics.Metrics) *Handler {
	return &Handler{
		store:    st,
		pipeline: p,
		tracker:  t,
		metrics:  m,
	}
}

// Routes регистрирует все маршруты API
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/question-sets", h.listSets)
	mux.HandleFunc("POST /api/question-sets", h.createSet)
	mux.HandleFunc("DELETE /api/question-sets/{setName}", h.deleteSet)
	mux.HandleFunc("POST /api/question-sets/{setName}/clone", h.cloneSet)

	mux.HandleFunc("GET /api/questions/{setName}", h.getQuestions)
	mux.HandleFunc("POST /api/questions/{setName}", h.saveQuestions)
	mux.HandleFunc("GET /api/question/{setName}/{id}", h.getQuestion)
	mux.HandleFunc("GET /api/first-unanswered/{setName}", h.firstUnanswered)

	mux.HandleFunc("GET /api/audio-exists/{setName}/{id}", h.audioExists)
	mux.HandleFunc("GET /api/audio-details/{setName}/{id}", h.audioDetails)
	mux.HandleFunc("POST /api/audio/{setName}/{id}", h.uploadAudio)
	mux.HandleFunc("DELETE /api/audio/{setName}/{id}", h.deleteAudio)

	mux.HandleFunc("GET /api/transcription/{setName}/{id}", h.getTranscription)
	mux.HandleFunc("GET /api/transcriptions/{setName}", h.getAllTranscriptions)
	mux.HandleFunc("GET /api/download-all-transcriptions/{setName}", h.downloadAllTranscriptions)

	mux.HandleFunc("GET /api/metrics", h.getMetrics)

	return mux
}

// setName извлекает и проверяет имя набора из пути запроса
func setName(r *http.Request) (string, error) {
	name := r.PathValue("setName")
	if err := store.ValidateSetName(name); err != nil {
		return "", err
	}
	return name, nil
}

// questionID извлекает номер вопроса из пути запроса
func questionID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("некорректный номер вопроса %q", r.PathValue("id"))
	}
	return id, nil
}

func (h *Handler) listSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.store.ListSets()
	if err != nil {
		log.Printf("Ошибка получения списка наборов: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list question sets", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *Handler) createSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SetName string `json:"setName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SetName == "" {
		writeError(w, http.StatusBadRequest, "Set name is required", "")
		return
	}
	if err := h.store.CreateSet(body.SetName); err != nil {
		if errors.Is(err, store.ErrInvalidSetName) {
			writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
			return
		}
		log.Printf("Ошибка создания набора %s: %v", body.SetName, err)
		writeError(w, http.StatusInternalServerError, "Failed to create question set", err.Error())
		return
	}
	writeMessage(w, "Question set created successfully")
}

func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	if err := h.store.DeleteSet(name); err != nil {
		log.Printf("Ошибка удаления набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete question set", err.Error())
		return
	}
	writeMessage(w, "Question set deleted successfully")
}

func (h *Handler) cloneSet(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	var body struct {
		NewSetName string `json:"newSetName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewSetName == "" {
		writeError(w, http.StatusBadRequest, "New set name is required", "")
		return
	}
	if err := h.store.CloneInto(name, body.NewSetName); err != nil {
		if errors.Is(err, store.ErrInvalidSetName) {
			writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
			return
		}
		log.Printf("Ошибка клонирования набора %s в %s: %v", name, body.NewSetName, err)
		writeError(w, http.StatusInternalServerError, "Failed to clone question set", err.Error())
		return
	}
	writeMessage(w, "Question set cloned successfully")
}

func (h *Handler) getQuestions(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	o, err := h.store.LoadOutline(name)
	if err != nil {
		log.Printf("Ошибка чтения вопросов набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) saveQuestions(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	var o outline.Outline
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid questions document", err.Error())
		return
	}
	if err := h.store.SaveOutline(name, o); err != nil {
		log.Printf("Ошибка сохранения вопросов набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to update questions", err.Error())
		return
	}
	writeMessage(w, "Questions updated successfully")
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}
	o, err := h.store.LoadOutline(name)
	if err != nil {
		log.Printf("Ошибка чтения вопросов набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions", err.Error())
		return
	}
	question, err := outline.Resolve(o, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Question not found", "")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) firstUnanswered(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := h.tracker.FirstUnanswered(name)
	if err != nil {
		log.Printf("Ошибка поиска первого неотвеченного вопроса в %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to find first unanswered question", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *Handler) audioExists(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": h.store.HasAudio(name, id)})
}

func (h *Handler) audioDetails(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}
	meta, err := h.store.AudioMetadata(name, id)
	if err != nil {
		log.Printf("Ошибка чтения метаданных аудио %s/%d: %v", name, id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch audio details", err.Error())
		return
	}
	if !meta.Exists {
		writeJSON(w, http.StatusOK, map[string]bool{"exists": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exists":      true,
		"size":        meta.Size,
		"permissions": meta.Permissions,
	})
}

// uploadAudio принимает запись ответа и проводит её через конвейер.
// После успешного сохранения аудио сбой распознавания возвращается клиенту,
// но запись остается на месте.
func (h *Handler) uploadAudio(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file uploaded", "")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file", err.Error())
		return
	}

	result, err := h.pipeline.Submit(r.Context(), name, id, raw)
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "Uploaded file is empty", "")
		case errors.Is(err, outline.ErrNotFound):
			writeError(w, http.StatusNotFound, "Question not found", err.Error())
		default:
			log.Printf("Ошибка обработки записи %s/%d (прогон %s): %v", name, id, result.RunID, err)
			writeError(w, http.StatusInternalServerError, "Failed to process audio", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Audio uploaded, converted, transcribed, and cleaned successfully",
		"run_id":        result.RunID,
		"transcription": result.Transcript,
		"refined":       result.Refined,
	})
}

func (h *Handler) deleteAudio(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}
	h.store.DeleteAnswer(name, id)
	writeMessage(w, "Existing audio and transcription deleted successfully")
}

func (h *Handler) getTranscription(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id", err.Error())
		return
	}
	text, err := h.store.ReadTranscript(name, id)
	if err != nil {
		log.Printf("Ошибка чтения транскрипта %s/%d: %v", name, id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transcription", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transcription": text})
}

func (h *Handler) getAllTranscriptions(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	all, err := h.store.AllTranscripts(name)
	if err != nil {
		log.Printf("Ошибка чтения транскриптов набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transcriptions", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) downloadAllTranscriptions(w http.ResponseWriter, r *http.Request) {
	name, err := setName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid set name", err.Error())
		return
	}
	all, err := h.store.AllTranscripts(name)
	if err != nil {
		log.Printf("Ошибка выгрузки транскриптов набора %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to download all transcriptions", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_all_transcriptions.txt", name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, all); err != nil {
		log.Printf("Ошибка записи выгрузки транскриптов: %v", err)
	}
}

func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.GetSnapshot())
}
