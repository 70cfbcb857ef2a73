package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Stelujin-Datacraft/topsqill/engine"
	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/persistence/inmem"
	"github.com/Stelujin-Datacraft/topsqill/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	storage := inmem.NewInMemMetadataStorage()
	flowDao := inmem.NewInMemFlowDao()
	delayQueue := inmem.NewInMemDelayQueue()
	metadataService := metadata.NewMetadataService(storage)
	var wg sync.WaitGroup
	eng := engine.NewFlowEngine(flowDao, delayQueue, metadataService, &wg)
	executionService := service.NewWorkflowExecutionService(eng, flowDao)
	s, err := NewServer(0, metadataService, executionService)
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, s *Server, path string, body map[string]any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return rec.Code, response
}

func TestHandleValidateExpression(t *testing.T) {
	s := testServer(t)

	t.Run("valid expression", func(t *testing.T) {
		code, response := postJSON(t, s, "/expression/validate", map[string]any{
			"expression": "1 AND (2 OR NOT 3)", "conditionCount": 3,
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, response["valid"])
	})

	t.Run("syntax error still returns 200", func(t *testing.T) {
		code, response := postJSON(t, s, "/expression/validate", map[string]any{
			"expression": "1 AND",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, response["valid"])
		assert.NotEmpty(t, response["error"])
	})

	t.Run("empty expression", func(t *testing.T) {
		code, response := postJSON(t, s, "/expression/validate", map[string]any{
			"expression": "",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, response["valid"])
		assert.Equal(t, "Expression is required", response["error"])
	})

	t.Run("out of range reference", func(t *testing.T) {
		code, response := postJSON(t, s, "/expression/validate", map[string]any{
			"expression": "1 AND 5", "conditionCount": 2,
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, response["valid"])
		assert.Contains(t, response["error"], "out of range")
	})
}

func TestHandleExtractConditionIds(t *testing.T) {
	s := testServer(t)

	code, response := postJSON(t, s, "/expression/ids", map[string]any{
		"expression": "1 AND (2 OR 1) AND NOT 3",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"1", "2", "3"}, response["ids"])
}

func TestHandleDefaultExpression(t *testing.T) {
	s := testServer(t)

	code, response := postJSON(t, s, "/expression/default", map[string]any{
		"conditionCount": 3, "operator": "OR",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "(1 AND 2) OR 3", response["expression"])
}

func TestHandleRenumberExpression(t *testing.T) {
	s := testServer(t)

	code, response := postJSON(t, s, "/expression/renumber", map[string]any{
		"expression": "1 AND 2 AND 3", "removed": 2, "conditionCount": 2, "operator": "AND",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1 AND 2", response["expression"])
}
