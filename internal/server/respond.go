package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON сериализует ответ и отправляет его с указанным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Ошибка записи JSON ответа: %v", err)
	}
}

// errorResponse — структура ответа об ошибке: error говорит, что случилось,
// details помогает отличить "исправьте ввод" от "повторите позже"
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// messageResponse — ответ об успешной операции без данных
type messageResponse struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}
