package node

import (
	"fmt"
	"strings"

	"github.com/Stelujin-Datacraft/topsqill/model"
)

type NodeType string

const NODE_TYPE_TRIGGER NodeType = "trigger"
const NODE_TYPE_CONDITION NodeType = "condition"
const NODE_TYPE_SWITCH NodeType = "switch"
const NODE_TYPE_DELAY NodeType = "delay"
const NODE_TYPE_WAIT NodeType = "wait"
const NODE_TYPE_APPROVAL NodeType = "approval"
const NODE_TYPE_SCRIPT NodeType = "script"
const NODE_TYPE_JSONMAP NodeType = "jsonmap"

func ToNodeType(t string) (NodeType, error) {
	nt := NodeType(strings.ToLower(t))
	switch nt {
	case NODE_TYPE_TRIGGER, NODE_TYPE_CONDITION, NODE_TYPE_SWITCH, NODE_TYPE_DELAY,
		NODE_TYPE_WAIT, NODE_TYPE_APPROVAL, NODE_TYPE_SCRIPT, NODE_TYPE_JSONMAP:
		return nt, nil
	}
	return "", fmt.Errorf("invalid node type %s", t)
}

// Node is one executable step of a workflow graph. Execute returns the
// outgoing branch event and any data to merge into the flow context.
type Node interface {
	GetId() int
	GetName() string
	GetType() NodeType
	GetInputParams() map[string]any
	GetNext() map[string][]int
	Validate() error
	Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error)
}

type baseNode struct {
	id          int
	nodeType    NodeType
	name        string
	inputParams map[string]any
	nextMap     map[string][]int
}

func newBaseNode(def model.NodeDef, nodeType NodeType) baseNode {
	return baseNode{
		id:          def.Id,
		nodeType:    nodeType,
		name:        def.Name,
		inputParams: def.InputParams,
		nextMap:     def.Next,
	}
}

func (bn *baseNode) GetId() int {
	return bn.id
}

func (bn *baseNode) GetName() string {
	return bn.name
}

func (bn *baseNode) GetType() NodeType {
	return bn.nodeType
}

func (bn *baseNode) GetInputParams() map[string]any {
	return bn.inputParams
}

func (bn *baseNode) GetNext() map[string][]int {
	return bn.nextMap
}

func (bn *baseNode) requireNext(event string) error {
	if _, ok := bn.nextMap[event]; !ok {
		return fmt.Errorf("nodeId=%d, %s node should have %q next node ids", bn.id, bn.nodeType, event)
	}
	return nil
}

// Build constructs an executable node from its stored definition.
func Build(def model.NodeDef) (Node, error) {
	nodeType, err := ToNodeType(def.Type)
	if err != nil {
		return nil, err
	}
	base := newBaseNode(def, nodeType)
	switch nodeType {
	case NODE_TYPE_CONDITION:
		return NewConditionNode(def.Conditions, def.Expression, base), nil
	case NODE_TYPE_SWITCH:
		return NewSwitchNode(def.Expression, base), nil
	case NODE_TYPE_DELAY:
		return NewDelayNode(def.DelaySeconds, base), nil
	case NODE_TYPE_WAIT:
		return NewWaitNode(def.Event, base), nil
	case NODE_TYPE_APPROVAL:
		return NewApprovalNode(base), nil
	case NODE_TYPE_SCRIPT:
		return NewScriptNode(def.Expression, base), nil
	case NODE_TYPE_JSONMAP:
		return NewJsonMapNode(base), nil
	case NODE_TYPE_TRIGGER:
		return NewTriggerNode(base), nil
	}
	return nil, fmt.Errorf("invalid node type %s", def.Type)
}
