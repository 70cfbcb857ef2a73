package rest

import (
	"encoding/json"
	"net/http"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"go.uber.org/zap"
)

func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event model.WorkflowEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid event")
		return
	}
	defer r.Body.Close()
	if err := s.executionService.ConsumeEvent(event.Name, event.FlowId, event.Event); err != nil {
		logger.Error("error consuming event", zap.String("name", event.Name), zap.String("flowId", event.FlowId), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(w, map[string]string{"message": "event accepted"})
}
