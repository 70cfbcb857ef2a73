package node

import (
	"fmt"

	"github.com/Stelujin-Datacraft/topsqill/model"
)

var _ Node = new(waitNode)
var _ Node = new(approvalNode)

// waitNode suspends the flow until its named event is delivered.
type waitNode struct {
	baseNode
	event string
}

func NewWaitNode(event string, base baseNode) *waitNode {
	return &waitNode{
		baseNode: base,
		event:    event,
	}
}

func (w *waitNode) GetEvent() string {
	return w.event
}

func (w *waitNode) Validate() error {
	if len(w.event) == 0 {
		return fmt.Errorf("nodeId=%d, wait node should have event", w.id)
	}
	return w.requireNext("default")
}

func (w *waitNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	return "default", nil, nil
}

// approvalNode suspends the flow until an approved or rejected event arrives
// and branches on the decision.
type approvalNode struct {
	baseNode
}

func NewApprovalNode(base baseNode) *approvalNode {
	return &approvalNode{baseNode: base}
}

func (a *approvalNode) Validate() error {
	if err := a.requireNext("approved"); err != nil {
		return err
	}
	return a.requireNext("rejected")
}

func (a *approvalNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	return "default", nil, nil
}
