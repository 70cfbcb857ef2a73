package model

type FlowState int

const RUNNING FlowState = 1
const FAILED FlowState = 2
const COMPLETED FlowState = 3
const WAITING_DELAY FlowState = 4
const WAITING_EVENT FlowState = 5
const PAUSED FlowState = 6

type FlowContext struct {
	Id            string         `json:"id"`
	WorkflowName  string         `json:"workflowName"`
	CurrentNode   int            `json:"currentNode"`
	Data          map[string]any `json:"data"`
	State         FlowState      `json:"flowState"`
	Event         string         `json:"event"`
	ExecutedNodes map[int]bool   `json:"executedNodes"`
}

type FlowExecutionType string

const NEW_FLOW_EXECUTION FlowExecutionType = "NEW"
const RESUME_FLOW_EXECUTION FlowExecutionType = "RESUME"
const DELAY_FLOW_EXECUTION FlowExecutionType = "DELAY"

type FlowExecutionRequest struct {
	WorkflowName string
	FlowId       string
	Event        string
	NodeId       int
	DataMap      map[string]any
	RequestType  FlowExecutionType
}

type FlowStateChangeRequest struct {
	WorkflowName string
	FlowId       string
	State        FlowState
}

type FlowExecution struct {
	Id            string         `json:"id"`
	State         string         `json:"state"`
	CurrentNode   int            `json:"currentNode"`
	ExecutedNodes []int          `json:"executedNodes"`
	Event         string         `json:"event"`
	Data          map[string]any `json:"data"`
}
