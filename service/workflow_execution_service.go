package service

import (
	"fmt"
	"sort"

	"github.com/Stelujin-Datacraft/topsqill/engine"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
)

// WorkflowExecutionService is the api facing facade over the flow engine.
type WorkflowExecutionService struct {
	engine  *engine.FlowEngine
	flowDao persistence.FlowDao
}

func NewWorkflowExecutionService(engine *engine.FlowEngine, flowDao persistence.FlowDao) *WorkflowExecutionService {
	return &WorkflowExecutionService{
		engine:  engine,
		flowDao: flowDao,
	}
}

func (s *WorkflowExecutionService) StartFlow(name string, input map[string]any) (string, error) {
	return s.engine.Init(name, input)
}

func (s *WorkflowExecutionService) ConsumeEvent(wfName string, flowId string, event string) error {
	if event == "" {
		return fmt.Errorf("event is required")
	}
	s.engine.ConsumeEvent(wfName, flowId, event)
	return nil
}

func (s *WorkflowExecutionService) PauseFlow(wfName string, flowId string) error {
	if _, err := s.flowDao.GetFlowContext(wfName, flowId); err != nil {
		return err
	}
	s.engine.MarkPaused(wfName, flowId)
	return nil
}

func (s *WorkflowExecutionService) ResumeFlow(wfName string, flowId string) error {
	if _, err := s.flowDao.GetFlowContext(wfName, flowId); err != nil {
		return err
	}
	s.engine.MarkRunning(wfName, flowId)
	return nil
}

func (s *WorkflowExecutionService) GetFlow(wfName string, flowId string) (*model.FlowExecution, error) {
	flowCtx, err := s.flowDao.GetFlowContext(wfName, flowId)
	if err != nil {
		return nil, err
	}
	executed := make([]int, 0, len(flowCtx.ExecutedNodes))
	for nodeId := range flowCtx.ExecutedNodes {
		executed = append(executed, nodeId)
	}
	sort.Ints(executed)
	return &model.FlowExecution{
		Id:            flowCtx.Id,
		State:         stateName(flowCtx.State),
		CurrentNode:   flowCtx.CurrentNode,
		ExecutedNodes: executed,
		Event:         flowCtx.Event,
		Data:          flowCtx.Data,
	}, nil
}

func stateName(state model.FlowState) string {
	switch state {
	case model.RUNNING:
		return "RUNNING"
	case model.FAILED:
		return "FAILED"
	case model.COMPLETED:
		return "COMPLETED"
	case model.WAITING_DELAY:
		return "WAITING_DELAY"
	case model.WAITING_EVENT:
		return "WAITING_EVENT"
	case model.PAUSED:
		return "PAUSED"
	}
	return "UNKNOWN"
}
