package persistence

import (
	"fmt"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

type FlowDao interface {
	SaveFlowContext(wfName string, flowId string, flowCtx *model.FlowContext) error
	GetFlowContext(wfName string, flowId string) (*model.FlowContext, error)
	DeleteFlowContext(wfName string, flowId string) error
}

// DelayedFlow is a suspended flow scheduled to resume after its delay node's
// interval elapses.
type DelayedFlow struct {
	WorkflowName string `json:"workflowName"`
	FlowId       string `json:"flowId"`
	NodeId       int    `json:"nodeId"`
}

type DelayQueue interface {
	PushWithDelay(delay time.Duration, item DelayedFlow) error
	// PopExpired removes and returns the flows whose delay has elapsed.
	PopExpired() ([]DelayedFlow, error)
}
