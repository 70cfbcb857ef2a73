package node

import (
	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/util"
	"go.uber.org/zap"
)

var _ Node = new(jsonMapNode)
var _ Node = new(triggerNode)

// jsonMapNode projects flow data into a new shape through its input params.
type jsonMapNode struct {
	baseNode
}

func NewJsonMapNode(base baseNode) *jsonMapNode {
	return &jsonMapNode{baseNode: base}
}

func (j *jsonMapNode) Validate() error {
	return nil
}

func (j *jsonMapNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	logger.Info("running jsonmap node", zap.String("name", j.name), zap.String("workflow", wfName), zap.String("id", flowContext.Id))
	output := util.ResolveInputParams(flowContext.Data, j.inputParams)
	return "default", output, nil
}

// triggerNode is the entry point of a workflow; it carries no behavior of
// its own beyond pointing at the first real node.
type triggerNode struct {
	baseNode
}

func NewTriggerNode(base baseNode) *triggerNode {
	return &triggerNode{baseNode: base}
}

func (t *triggerNode) Validate() error {
	return t.requireNext("default")
}

func (t *triggerNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	return "default", nil, nil
}
