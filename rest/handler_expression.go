package rest

import (
	"encoding/json"
	"net/http"

	"github.com/Stelujin-Datacraft/topsqill/expression"
)

// Expression handlers back the builder UI's live feedback, so invalid
// expressions come back as {valid:false, error:...} with HTTP 200 rather
// than an error status.

type expressionRequest struct {
	Expression     string `json:"expression"`
	ConditionCount int    `json:"conditionCount"`
	Operator       string `json:"operator"`
	// Removed is the 1-based slot removed from the condition list; on
	// renumber requests ConditionCount is the count after removal.
	Removed int `json:"removed"`
}

func (s *Server) HandleValidateExpression(w http.ResponseWriter, r *http.Request) {
	var req expressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	defer r.Body.Close()
	var result expression.ValidationResult
	if req.ConditionCount > 0 {
		result = expression.ValidateWithCount(req.Expression, req.ConditionCount)
	} else {
		result = expression.Validate(req.Expression)
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleExtractConditionIds(w http.ResponseWriter, r *http.Request) {
	var req expressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	defer r.Body.Close()
	ids := expression.ExtractConditionIDs(req.Expression)
	if ids == nil {
		ids = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) HandleDefaultExpression(w http.ResponseWriter, r *http.Request) {
	var req expressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	defer r.Body.Close()
	expr := expression.GenerateDefaultExpression(req.ConditionCount, expression.Operator(req.Operator))
	respondWithJSON(w, http.StatusOK, map[string]any{"expression": expr})
}

func (s *Server) HandleRenumberExpression(w http.ResponseWriter, r *http.Request) {
	var req expressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	defer r.Body.Close()
	expr := expression.RemoveCondition(req.Expression, req.Removed, req.ConditionCount, expression.Operator(req.Operator))
	respondWithJSON(w, http.StatusOK, map[string]any{"expression": expr})
}
