package rest

import (
	"encoding/json"
	"net/http"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	var runReq model.WorkflowRunRequest
	if err := json.NewDecoder(r.Body).Decode(&runReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid run request")
		return
	}
	defer r.Body.Close()
	flowId, err := s.executionService.StartFlow(runReq.Name, runReq.Input)
	if err != nil {
		logger.Error("error running workflow", zap.String("name", runReq.Name), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "error running workflow")
		return
	}
	respondOK(w, map[string]any{"flowId": flowId})
}

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	id := vars["id"]
	execution, err := s.executionService.GetFlow(name, id)
	if err != nil {
		logger.Info("flow does not exist", zap.String("name", name), zap.String("id", id))
		respondWithError(w, statusForError(err), "flow does not exist")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandlePauseExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	id := vars["id"]
	if err := s.executionService.PauseFlow(name, id); err != nil {
		respondWithError(w, statusForError(err), "flow does not exist")
		return
	}
	respondOK(w, map[string]string{"message": "paused"})
}

func (s *Server) HandleResumeExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	id := vars["id"]
	if err := s.executionService.ResumeFlow(name, id); err != nil {
		respondWithError(w, statusForError(err), "flow does not exist")
		return
	}
	respondOK(w, map[string]string{"message": "resumed"})
}
