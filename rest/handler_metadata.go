package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid workflow definition")
		return
	}
	defer r.Body.Close()
	if err := s.metadataService.ValidateWorkflow(wf); err != nil {
		logger.Error("invalid workflow", zap.String("name", wf.Name), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.GetMetadataStorage().SaveWorkflowDefinition(wf); err != nil {
		logger.Error("error creating workflow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating workflow")
		return
	}
	respondOK(w, map[string]string{"message": "created"})
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := s.metadataService.GetMetadataStorage().ListWorkflowDefinitions()
	if err != nil {
		logger.Error("error listing workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing workflows")
		return
	}
	respondWithJSON(w, http.StatusOK, workflows)
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	wf, err := s.metadataService.GetMetadataStorage().GetWorkflowDefinition(name)
	if err != nil {
		logger.Info("workflow does not exist", zap.String("name", name))
		respondWithError(w, statusForError(err), "workflow does not exist")
		return
	}
	respondWithJSON(w, http.StatusOK, wf)
}

func (s *Server) HandleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.metadataService.GetMetadataStorage().DeleteWorkflowDefinition(name); err != nil {
		logger.Error("error deleting workflow", zap.String("name", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting workflow")
		return
	}
	respondOK(w, map[string]string{"message": "deleted"})
}

func (s *Server) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	var form model.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid form definition")
		return
	}
	defer r.Body.Close()
	if err := s.metadataService.ValidateForm(form); err != nil {
		logger.Error("invalid form", zap.String("name", form.Name), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.GetMetadataStorage().SaveFormDefinition(form); err != nil {
		logger.Error("error creating form", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating form")
		return
	}
	respondOK(w, map[string]string{"message": "created"})
}

func (s *Server) HandleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.metadataService.GetMetadataStorage().ListFormDefinitions()
	if err != nil {
		logger.Error("error listing forms", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing forms")
		return
	}
	respondWithJSON(w, http.StatusOK, forms)
}

func (s *Server) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	form, err := s.metadataService.GetMetadataStorage().GetFormDefinition(name)
	if err != nil {
		logger.Info("form does not exist", zap.String("name", name))
		respondWithError(w, statusForError(err), "form does not exist")
		return
	}
	respondWithJSON(w, http.StatusOK, form)
}

func (s *Server) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	workflows, err := s.metadataService.WorkflowsForForm(name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "error deleting form")
		return
	}
	if len(workflows) > 0 {
		respondWithError(w, http.StatusBadRequest, "form is referenced by workflows")
		return
	}
	if err := s.metadataService.GetMetadataStorage().DeleteFormDefinition(name); err != nil {
		logger.Error("error deleting form", zap.String("name", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting form")
		return
	}
	respondOK(w, map[string]string{"message": "deleted"})
}

func statusForError(err error) int {
	var notFound persistence.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
