package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

var _ Node = new(switchNode)

// switchNode branches on the value of a jsonpath expression over the flow
// data. The expression is written as {$.input.field}.
type switchNode struct {
	baseNode
	expression string
}

func NewSwitchNode(expr string, base baseNode) *switchNode {
	return &switchNode{
		baseNode:   base,
		expression: expr,
	}
}

func (s *switchNode) Validate() error {
	if len(s.expression) == 0 {
		return fmt.Errorf("nodeId=%d, expression can not be empty", s.id)
	}
	if !strings.HasPrefix(s.expression, "{") || !strings.HasSuffix(s.expression, "}") {
		return fmt.Errorf("nodeId=%d, expression should be enclosed in {}", s.id)
	}
	if _, err := jsonpath.Compile(s.path()); err != nil {
		return fmt.Errorf("nodeId=%d, expression should be a valid jsonpath expression", s.id)
	}
	if len(s.nextMap) == 0 {
		return fmt.Errorf("nodeId=%d, switch node should have at least one next node id", s.id)
	}
	return nil
}

func (s *switchNode) path() string {
	return strings.TrimSuffix(strings.TrimPrefix(s.expression, "{"), "}")
}

func (s *switchNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	logger.Info("running switch node", zap.String("name", s.name), zap.String("workflow", wfName), zap.String("id", flowContext.Id))
	value, err := jsonpath.JsonPathLookup(flowContext.Data, s.path())
	if err != nil {
		return "default", nil, err
	}
	event := "default"
	switch v := value.(type) {
	case int, int16, int32, int64:
		event = fmt.Sprintf("%d", v)
	case float32:
		event = strconv.Itoa(int(v))
	case float64:
		event = strconv.Itoa(int(v))
	case bool:
		event = strconv.FormatBool(v)
	case string:
		event = v
	}
	return event, nil, nil
}
