package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/assistant"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
)

type AssistantHandler interface {
	Query(w http.ResponseWriter, r *http.Request)
}

type AssistantHandlerImpl struct {
	assistantService assistant.Service
}

// Query implements AssistantHandler.
func (h *AssistantHandlerImpl) Query(w http.ResponseWriter, r *http.Request) {
	var req assistant.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.assistantService.Query(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func NewAssistantHandler(assistantService assistant.Service) AssistantHandler {
	return &AssistantHandlerImpl{assistantService: assistantService}
}
