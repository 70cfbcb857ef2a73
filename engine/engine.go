package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/analytics"
	"github.com/Stelujin-Datacraft/topsqill/cache"
	"github.com/Stelujin-Datacraft/topsqill/flow"
	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/node"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/Stelujin-Datacraft/topsqill/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FlowEngine drives flow executions. All node execution and state changes
// happen on a single goroutine consuming the two channels, so flow context
// reads and writes never race.
type FlowEngine struct {
	flowDao            persistence.FlowDao
	delayQueue         persistence.DelayQueue
	metadataService    metadata.MetadataService
	stateCache         *cache.FlowStateCache
	executionChannel   chan model.FlowExecutionRequest
	stateChangeChannel chan model.FlowStateChangeRequest
	delayWorker        *util.TickWorker
	stop               chan struct{}
	wg                 *sync.WaitGroup
}

func NewFlowEngine(flowDao persistence.FlowDao, delayQueue persistence.DelayQueue, metadataService metadata.MetadataService, wg *sync.WaitGroup) *FlowEngine {
	f := &FlowEngine{
		flowDao:            flowDao,
		delayQueue:         delayQueue,
		metadataService:    metadataService,
		stateCache:         cache.NewFlowStateCache(),
		executionChannel:   make(chan model.FlowExecutionRequest, 1000),
		stateChangeChannel: make(chan model.FlowStateChangeRequest, 1000),
		stop:               make(chan struct{}),
		wg:                 wg,
	}
	f.delayWorker = util.NewTickWorker("delay-worker", 1*time.Second, f.pollDelayQueue, wg)
	return f
}

func (f *FlowEngine) Start() {
	f.delayWorker.Start()
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for {
			select {
			case req := <-f.executionChannel:
				switch req.RequestType {
				case model.RESUME_FLOW_EXECUTION:
					f.resume(req.WorkflowName, req.FlowId, req.Event)
				case model.DELAY_FLOW_EXECUTION:
					f.resumeAfterDelay(req.WorkflowName, req.FlowId, req.NodeId)
				default:
					f.execute(req)
				}
			case req := <-f.stateChangeChannel:
				f.changeState(req.WorkflowName, req.FlowId, req.State)
			case <-f.stop:
				logger.Info("stopping flow engine")
				return
			}
		}
	}()
}

func (f *FlowEngine) Stop() error {
	f.delayWorker.Stop()
	f.stop <- struct{}{}
	return nil
}

// Init creates a new flow for the workflow, evaluates calculated form fields
// over the input and queues the root node for execution.
func (f *FlowEngine) Init(wfName string, input map[string]any) (string, error) {
	flowId := uuid.New().String()
	fl, err := f.metadataService.GetFlow(wfName, flowId)
	if err != nil {
		logger.Error("workflow not found", zap.String("workflow", wfName), zap.Error(err))
		return "", err
	}
	data := map[string]any{"input": input}
	data, err = f.applyCalculatedFields(wfName, data)
	if err != nil {
		logger.Error("error evaluating calculated fields", zap.String("workflow", wfName), zap.Error(err))
		return "", err
	}
	flowCtx := &model.FlowContext{
		Id:            flowId,
		WorkflowName:  wfName,
		CurrentNode:   fl.RootNode,
		Data:          data,
		State:         model.RUNNING,
		ExecutedNodes: map[int]bool{},
	}
	if err := f.flowDao.SaveFlowContext(wfName, flowId, flowCtx); err != nil {
		return "", err
	}
	f.stateCache.SaveFlowState(flowId, model.RUNNING)
	logger.Info("starting workflow", zap.String("workflow", wfName), zap.String("FlowId", flowId))
	f.executionChannel <- model.FlowExecutionRequest{
		WorkflowName: wfName,
		FlowId:       flowId,
		NodeId:       fl.RootNode,
		Event:        "default",
		RequestType:  model.NEW_FLOW_EXECUTION,
	}
	return flowId, nil
}

// ConsumeEvent delivers an external event to a flow waiting on it.
func (f *FlowEngine) ConsumeEvent(wfName string, flowId string, event string) {
	f.executionChannel <- model.FlowExecutionRequest{
		WorkflowName: wfName,
		FlowId:       flowId,
		Event:        event,
		RequestType:  model.RESUME_FLOW_EXECUTION,
	}
}

func (f *FlowEngine) MarkPaused(wfName string, flowId string) {
	f.stateChangeChannel <- model.FlowStateChangeRequest{
		WorkflowName: wfName,
		FlowId:       flowId,
		State:        model.PAUSED,
	}
}

func (f *FlowEngine) MarkRunning(wfName string, flowId string) {
	f.stateChangeChannel <- model.FlowStateChangeRequest{
		WorkflowName: wfName,
		FlowId:       flowId,
		State:        model.RUNNING,
	}
}

func (f *FlowEngine) GetFlowState(flowId string) (model.FlowState, bool) {
	return f.stateCache.GetFlowState(flowId)
}

// applyCalculatedFields runs each calculated field formula of the workflow's
// form over the flow data before the first node executes.
func (f *FlowEngine) applyCalculatedFields(wfName string, data map[string]any) (map[string]any, error) {
	wf, err := f.metadataService.GetMetadataStorage().GetWorkflowDefinition(wfName)
	if err != nil {
		return nil, err
	}
	if wf.FormName == "" {
		return data, nil
	}
	form, err := f.metadataService.GetMetadataStorage().GetFormDefinition(wf.FormName)
	if err != nil {
		return nil, err
	}
	for _, field := range form.Fields {
		if field.Kind != model.FIELD_KIND_CALCULATED || field.Calculated == nil {
			continue
		}
		script := fmt.Sprintf("$.input[%q] = %s;", field.Id, field.Calculated.Formula)
		data, err = node.RunScript(script, data)
		if err != nil {
			return nil, fmt.Errorf("calculated field %s: %w", field.Id, err)
		}
	}
	return data, nil
}

func (f *FlowEngine) execute(req model.FlowExecutionRequest) {
	fl, flowCtx, err := f.validateAndGetFlow(req.WorkflowName, req.FlowId)
	if err != nil {
		return
	}
	if flowCtx.State == model.PAUSED {
		flowCtx.CurrentNode = req.NodeId
		f.saveContext(req.WorkflowName, req.FlowId, flowCtx)
		return
	}
	currentNode, ok := fl.Nodes[req.NodeId]
	if !ok {
		logger.Error("node not found in workflow", zap.String("workflow", req.WorkflowName), zap.Int("node", req.NodeId))
		f.markFailed(req.WorkflowName, req.FlowId, fl, flowCtx)
		return
	}
	flowCtx.CurrentNode = req.NodeId
	event, output, err := currentNode.Execute(req.WorkflowName, flowCtx)
	if err != nil {
		logger.Error("error executing node", zap.String("workflow", req.WorkflowName), zap.String("FlowId", req.FlowId), zap.Int("node", req.NodeId), zap.Error(err))
		analytics.RecordNodeFailure(req.WorkflowName, req.FlowId, currentNode.GetName(), req.NodeId, err.Error())
		f.markFailed(req.WorkflowName, req.FlowId, fl, flowCtx)
		return
	}
	flowCtx.ExecutedNodes[req.NodeId] = true
	if len(output) > 0 {
		flowCtx.Data[fmt.Sprintf("%d", req.NodeId)] = map[string]any{"output": output}
	}
	analytics.RecordNodeSuccess(req.WorkflowName, req.FlowId, currentNode.GetName(), req.NodeId, output)

	switch currentNode.GetType() {
	case node.NODE_TYPE_DELAY:
		f.suspendForDelay(req.WorkflowName, req.FlowId, currentNode, flowCtx)
	case node.NODE_TYPE_WAIT, node.NODE_TYPE_APPROVAL:
		f.suspendForEvent(req.WorkflowName, req.FlowId, flowCtx)
	default:
		f.dispatchNext(req.WorkflowName, req.FlowId, currentNode, event, fl, flowCtx)
	}
}

func (f *FlowEngine) dispatchNext(wfName string, flowId string, currentNode node.Node, event string, fl *flow.Flow, flowCtx *model.FlowContext) {
	targets := currentNode.GetNext()[event]
	f.saveContext(wfName, flowId, flowCtx)
	if len(targets) == 0 {
		f.markComplete(wfName, flowId, fl, flowCtx)
		return
	}
	for _, target := range targets {
		f.execute(model.FlowExecutionRequest{
			WorkflowName: wfName,
			FlowId:       flowId,
			NodeId:       target,
			Event:        "default",
			RequestType:  model.NEW_FLOW_EXECUTION,
		})
	}
}

func (f *FlowEngine) suspendForDelay(wfName string, flowId string, currentNode node.Node, flowCtx *model.FlowContext) {
	delayNode, ok := currentNode.(interface{ GetDelay() time.Duration })
	if !ok {
		logger.Error("node is not a delay node", zap.Int("node", currentNode.GetId()))
		return
	}
	flowCtx.State = model.WAITING_DELAY
	f.saveContext(wfName, flowId, flowCtx)
	f.stateCache.SaveFlowState(flowId, model.WAITING_DELAY)
	analytics.RecordFlowStateChange(wfName, flowId, "WAITING_DELAY")
	err := f.delayQueue.PushWithDelay(delayNode.GetDelay(), persistence.DelayedFlow{
		WorkflowName: wfName,
		FlowId:       flowId,
		NodeId:       currentNode.GetId(),
	})
	if err != nil {
		logger.Error("error scheduling delay", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.Error(err))
	}
	logger.Info("workflow waiting delay", zap.String("workflow", wfName), zap.String("FlowId", flowId))
}

func (f *FlowEngine) suspendForEvent(wfName string, flowId string, flowCtx *model.FlowContext) {
	flowCtx.State = model.WAITING_EVENT
	f.saveContext(wfName, flowId, flowCtx)
	f.stateCache.SaveFlowState(flowId, model.WAITING_EVENT)
	analytics.RecordFlowStateChange(wfName, flowId, "WAITING_EVENT")
	logger.Info("workflow waiting for event", zap.String("workflow", wfName), zap.String("FlowId", flowId))
}

// resume handles an external event delivered to a flow suspended on a wait or
// approval node. Events that do not match an outgoing branch are dropped.
func (f *FlowEngine) resume(wfName string, flowId string, event string) {
	fl, flowCtx, err := f.validateAndGetFlow(wfName, flowId)
	if err != nil {
		return
	}
	if flowCtx.State != model.WAITING_EVENT {
		logger.Warn("flow is not waiting for event", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.String("event", event))
		return
	}
	currentNode, ok := fl.Nodes[flowCtx.CurrentNode]
	if !ok {
		logger.Error("node not found in workflow", zap.String("workflow", wfName), zap.Int("node", flowCtx.CurrentNode))
		return
	}
	if waitNode, ok := currentNode.(interface{ GetEvent() string }); ok {
		if waitNode.GetEvent() != event {
			logger.Warn("unexpected event for wait node", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.String("event", event))
			return
		}
		event = "default"
	}
	if _, ok := currentNode.GetNext()[event]; !ok {
		logger.Warn("no branch for event", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.String("event", event))
		return
	}
	flowCtx.State = model.RUNNING
	flowCtx.ExecutedNodes[currentNode.GetId()] = true
	flowCtx.Event = event
	f.stateCache.SaveFlowState(flowId, model.RUNNING)
	f.dispatchNext(wfName, flowId, currentNode, event, fl, flowCtx)
}

// resumeAfterDelay continues a flow whose delay node interval has elapsed.
func (f *FlowEngine) resumeAfterDelay(wfName string, flowId string, nodeId int) {
	fl, flowCtx, err := f.validateAndGetFlow(wfName, flowId)
	if err != nil {
		return
	}
	if flowCtx.State != model.WAITING_DELAY {
		logger.Warn("flow is not waiting on delay", zap.String("workflow", wfName), zap.String("FlowId", flowId))
		return
	}
	currentNode, ok := fl.Nodes[nodeId]
	if !ok {
		logger.Error("node not found in workflow", zap.String("workflow", wfName), zap.Int("node", nodeId))
		return
	}
	flowCtx.State = model.RUNNING
	f.stateCache.SaveFlowState(flowId, model.RUNNING)
	f.dispatchNext(wfName, flowId, currentNode, "default", fl, flowCtx)
}

func (f *FlowEngine) pollDelayQueue() {
	expired, err := f.delayQueue.PopExpired()
	if err != nil {
		logger.Error("error polling delay queue", zap.Error(err))
		return
	}
	for _, delayed := range expired {
		f.executionChannel <- model.FlowExecutionRequest{
			WorkflowName: delayed.WorkflowName,
			FlowId:       delayed.FlowId,
			NodeId:       delayed.NodeId,
			RequestType:  model.DELAY_FLOW_EXECUTION,
		}
	}
}

func (f *FlowEngine) validateAndGetFlow(wfName string, flowId string) (*flow.Flow, *model.FlowContext, error) {
	fl, err := f.metadataService.GetFlow(wfName, flowId)
	if err != nil {
		logger.Error("workflow not found", zap.String("workflow", wfName), zap.Error(err))
		return nil, nil, err
	}
	flowCtx, err := f.flowDao.GetFlowContext(wfName, flowId)
	if err != nil {
		logger.Debug("flow not found", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.Error(err))
		return nil, nil, err
	}
	if flowCtx.State == model.COMPLETED || flowCtx.State == model.FAILED {
		logger.Debug("flow already finished, can not dispatch next node", zap.String("workflow", wfName), zap.String("FlowId", flowId))
		return nil, nil, fmt.Errorf("flow already finished")
	}
	return fl, flowCtx, nil
}

func (f *FlowEngine) saveContext(wfName string, flowId string, flowCtx *model.FlowContext) {
	if err := f.flowDao.SaveFlowContext(wfName, flowId, flowCtx); err != nil {
		logger.Error("error saving flow context", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.Error(err))
	}
}

func (f *FlowEngine) markComplete(wfName string, flowId string, fl *flow.Flow, flowCtx *model.FlowContext) {
	flowCtx.State = model.COMPLETED
	f.saveContext(wfName, flowId, flowCtx)
	f.stateCache.SaveFlowState(flowId, model.COMPLETED)
	analytics.RecordFlowStateChange(wfName, flowId, "COMPLETED")
	if err := f.runStateHandler(fl.SuccessHandler, wfName, flowId); err != nil {
		logger.Error("error in running success handler", zap.Error(err))
	}
	logger.Info("workflow completed", zap.String("workflow", wfName), zap.String("FlowId", flowId))
}

func (f *FlowEngine) markFailed(wfName string, flowId string, fl *flow.Flow, flowCtx *model.FlowContext) {
	flowCtx.State = model.FAILED
	f.saveContext(wfName, flowId, flowCtx)
	f.stateCache.SaveFlowState(flowId, model.FAILED)
	analytics.RecordFlowStateChange(wfName, flowId, "FAILED")
	if err := f.runStateHandler(fl.FailureHandler, wfName, flowId); err != nil {
		logger.Error("error in running failure handler", zap.Error(err))
	}
	logger.Info("workflow failed", zap.String("workflow", wfName), zap.String("FlowId", flowId))
}

// changeState serves pause and resume requests from the api surface.
func (f *FlowEngine) changeState(wfName string, flowId string, state model.FlowState) {
	flowCtx, err := f.flowDao.GetFlowContext(wfName, flowId)
	if err != nil {
		logger.Debug("flow not found", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.Error(err))
		return
	}
	if flowCtx.State == model.COMPLETED || flowCtx.State == model.FAILED {
		logger.Debug("flow already finished", zap.String("workflow", wfName), zap.String("FlowId", flowId))
		return
	}
	resuming := state == model.RUNNING && flowCtx.State == model.PAUSED
	flowCtx.State = state
	f.saveContext(wfName, flowId, flowCtx)
	f.stateCache.SaveFlowState(flowId, state)
	if state == model.PAUSED {
		analytics.RecordFlowStateChange(wfName, flowId, "PAUSED")
		logger.Info("workflow paused", zap.String("workflow", wfName), zap.String("FlowId", flowId))
	}
	if resuming {
		analytics.RecordFlowStateChange(wfName, flowId, "RUNNING")
		logger.Info("workflow resumed", zap.String("workflow", wfName), zap.String("FlowId", flowId))
		f.execute(model.FlowExecutionRequest{
			WorkflowName: wfName,
			FlowId:       flowId,
			NodeId:       flowCtx.CurrentNode,
			Event:        "default",
			RequestType:  model.NEW_FLOW_EXECUTION,
		})
	}
}

// state handlers run after a flow reaches a terminal state.
func (f *FlowEngine) runStateHandler(handler flow.Statehandler, wfName string, flowId string) error {
	switch handler {
	case flow.NOTIFY:
		flowCtx, err := f.flowDao.GetFlowContext(wfName, flowId)
		if err != nil {
			return err
		}
		logger.Info("flow finished", zap.String("workflow", wfName), zap.String("FlowId", flowId), zap.Any("data", flowCtx.Data))
		return nil
	case flow.ARCHIVE:
		return f.flowDao.DeleteFlowContext(wfName, flowId)
	}
	return nil
}
