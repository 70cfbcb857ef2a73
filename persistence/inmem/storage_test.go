package inmem

import (
	"strconv"
	"testing"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/stretchr/testify/require"
)

func TestMetadataStorage(t *testing.T) {
	storage := NewInMemMetadataStorage()

	_, err := storage.GetWorkflowDefinition("missing")
	require.Error(t, err)
	_, ok := err.(persistence.NotFoundError)
	require.True(t, ok)

	wf := model.Workflow{Name: "wf1", RootNode: 1}
	require.NoError(t, storage.SaveWorkflowDefinition(wf))

	got, err := storage.GetWorkflowDefinition("wf1")
	require.NoError(t, err)
	require.Equal(t, "wf1", got.Name)

	require.NoError(t, storage.SaveWorkflowDefinition(model.Workflow{Name: "wf2"}))
	all, err := storage.ListWorkflowDefinitions()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "wf1", all[0].Name)

	require.NoError(t, storage.DeleteWorkflowDefinition("wf1"))
	_, err = storage.GetWorkflowDefinition("wf1")
	require.Error(t, err)

	form := model.Form{Name: "form1"}
	require.NoError(t, storage.SaveFormDefinition(form))
	gotForm, err := storage.GetFormDefinition("form1")
	require.NoError(t, err)
	require.Equal(t, "form1", gotForm.Name)

	forms, err := storage.ListFormDefinitions()
	require.NoError(t, err)
	require.Len(t, forms, 1)
}

func TestFlowDao(t *testing.T) {
	dao := NewInMemFlowDao()

	flowCtx := &model.FlowContext{
		Id:            "f1",
		WorkflowName:  "wf1",
		State:         model.RUNNING,
		Data:          map[string]any{"input": map[string]any{"x": 1}},
		ExecutedNodes: map[int]bool{},
	}
	require.NoError(t, dao.SaveFlowContext("wf1", "f1", flowCtx))

	got, err := dao.GetFlowContext("wf1", "f1")
	require.NoError(t, err)
	require.Equal(t, "f1", got.Id)
	require.Equal(t, model.RUNNING, got.State)

	_, err = dao.GetFlowContext("wf1", "other")
	require.Error(t, err)

	require.NoError(t, dao.DeleteFlowContext("wf1", "f1"))
	_, err = dao.GetFlowContext("wf1", "f1")
	require.Error(t, err)
}

func TestFlowContextCopiedOnSaveAndGet(t *testing.T) {
	dao := NewInMemFlowDao()

	flowCtx := &model.FlowContext{
		Id:            "f1",
		WorkflowName:  "wf1",
		State:         model.RUNNING,
		Data:          map[string]any{"input": map[string]any{"amount": 10}},
		ExecutedNodes: map[int]bool{1: true},
	}
	require.NoError(t, dao.SaveFlowContext("wf1", "f1", flowCtx))

	// mutating the caller's context after save must not change the stored one
	flowCtx.Data["input"] = "clobbered"
	flowCtx.ExecutedNodes[2] = true

	got, err := dao.GetFlowContext("wf1", "f1")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"amount": float64(10)}, got.Data["input"])
	require.False(t, got.ExecutedNodes[2])

	// mutating a fetched context must not change what later readers see
	got.Data["extra"] = "x"
	got.ExecutedNodes[3] = true

	again, err := dao.GetFlowContext("wf1", "f1")
	require.NoError(t, err)
	require.NotContains(t, again.Data, "extra")
	require.False(t, again.ExecutedNodes[3])
}

func TestFlowContextConcurrentReadWrite(t *testing.T) {
	dao := NewInMemFlowDao()

	flowCtx := &model.FlowContext{
		Id:            "f1",
		WorkflowName:  "wf1",
		State:         model.RUNNING,
		Data:          map[string]any{"input": map[string]any{"amount": 10}},
		ExecutedNodes: map[int]bool{},
	}
	require.NoError(t, dao.SaveFlowContext("wf1", "f1", flowCtx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			ctx, err := dao.GetFlowContext("wf1", "f1")
			if err != nil {
				continue
			}
			ctx.Data[strconv.Itoa(i)] = map[string]any{"output": i}
			ctx.ExecutedNodes[i] = true
			_ = dao.SaveFlowContext("wf1", "f1", ctx)
		}
	}()

	for i := 0; i < 200; i++ {
		ctx, err := dao.GetFlowContext("wf1", "f1")
		require.NoError(t, err)
		for range ctx.Data {
		}
		for range ctx.ExecutedNodes {
		}
	}
	<-done
}

func TestDelayQueue(t *testing.T) {
	queue := NewInMemDelayQueue()

	err := queue.PushWithDelay(0, persistence.DelayedFlow{WorkflowName: "wf1", FlowId: "f1", NodeId: 2})
	require.NoError(t, err)
	err = queue.PushWithDelay(1*time.Hour, persistence.DelayedFlow{WorkflowName: "wf1", FlowId: "f2", NodeId: 2})
	require.NoError(t, err)

	expired, err := queue.PopExpired()
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, "f1", expired[0].FlowId)

	expired, err = queue.PopExpired()
	require.NoError(t, err)
	require.Empty(t, expired)
}
