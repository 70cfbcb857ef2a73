package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port             int
	metadataService  metadata.MetadataService
	executionService *service.WorkflowExecutionService
}

func NewServer(httpPort int, metadataService metadata.MetadataService, executionService *service.WorkflowExecutionService) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr: fmt.Sprintf(":%d", httpPort),
		},
		Port:             httpPort,
		metadataService:  metadataService,
		executionService: executionService,
	}

	router := mux.NewRouter()
	router.HandleFunc("/metadata/workflow", s.HandleCreateWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/metadata/workflow", s.HandleListWorkflows).Methods(http.MethodGet)
	router.HandleFunc("/metadata/workflow/{name}", s.HandleGetWorkflow).Methods(http.MethodGet)
	router.HandleFunc("/metadata/workflow/{name}", s.HandleDeleteWorkflow).Methods(http.MethodDelete)
	router.HandleFunc("/metadata/form", s.HandleCreateForm).Methods(http.MethodPost)
	router.HandleFunc("/metadata/form", s.HandleListForms).Methods(http.MethodGet)
	router.HandleFunc("/metadata/form/{name}", s.HandleGetForm).Methods(http.MethodGet)
	router.HandleFunc("/metadata/form/{name}", s.HandleDeleteForm).Methods(http.MethodDelete)
	router.HandleFunc("/execution", s.HandleRunWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/execution/{name}/{id}", s.HandleGetExecution).Methods(http.MethodGet)
	router.HandleFunc("/execution/{name}/{id}/pause", s.HandlePauseExecution).Methods(http.MethodPost)
	router.HandleFunc("/execution/{name}/{id}/resume", s.HandleResumeExecution).Methods(http.MethodPost)
	router.HandleFunc("/event", s.HandleEvent).Methods(http.MethodPost)
	router.HandleFunc("/expression/validate", s.HandleValidateExpression).Methods(http.MethodPost)
	router.HandleFunc("/expression/ids", s.HandleExtractConditionIds).Methods(http.MethodPost)
	router.HandleFunc("/expression/default", s.HandleDefaultExpression).Methods(http.MethodPost)
	router.HandleFunc("/expression/renumber", s.HandleRenumberExpression).Methods(http.MethodPost)
	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, payload any) {
	respondWithJSON(w, http.StatusOK, payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
