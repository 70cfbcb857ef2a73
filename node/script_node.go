package node

import (
	"encoding/json"
	"fmt"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

var _ Node = new(scriptNode)

// scriptNode runs a user supplied javascript snippet over the flow data. The
// data map is bound to $ and the mutated value becomes the node output.
type scriptNode struct {
	baseNode
	script string
}

func NewScriptNode(script string, base baseNode) *scriptNode {
	return &scriptNode{
		baseNode: base,
		script:   script,
	}
}

func (s *scriptNode) Validate() error {
	if len(s.script) == 0 {
		return fmt.Errorf("nodeId=%d, script can not be empty", s.id)
	}
	return s.requireNext("default")
}

func (s *scriptNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	logger.Info("running script node", zap.String("name", s.name), zap.String("workflow", wfName), zap.String("id", flowContext.Id))
	output, err := RunScript(s.script, flowContext.Data)
	if err != nil {
		return "", nil, err
	}
	return "default", output, nil
}

// RunScript executes a javascript snippet with data bound to $ and returns
// the resulting value of $. Shared with calculated form fields.
func RunScript(script string, data map[string]any) (map[string]any, error) {
	bound, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	if _, err := vm.RunString(fmt.Sprintf("var $ = %s;\n%s", bound, script)); err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	val, err := vm.RunString("$")
	if err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	res, err := json.Marshal(val.Export())
	if err != nil {
		return nil, err
	}
	var output map[string]any
	if err := json.Unmarshal(res, &output); err != nil {
		return nil, err
	}
	return output, nil
}
