package node

import (
	"fmt"

	"github.com/Stelujin-Datacraft/topsqill/condition"
	"github.com/Stelujin-Datacraft/topsqill/expression"
	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"go.uber.org/zap"
)

var _ Node = new(conditionNode)

// conditionNode resolves its condition slots against the flow data, combines
// them through its expression and branches on the boolean outcome via the
// "true" and "false" next events.
type conditionNode struct {
	baseNode
	conditions []model.ConditionDef
	expression string
}

func NewConditionNode(conditions []model.ConditionDef, expr string, base baseNode) *conditionNode {
	return &conditionNode{
		baseNode:   base,
		conditions: conditions,
		expression: expr,
	}
}

func (c *conditionNode) Validate() error {
	if len(c.conditions) == 0 {
		return fmt.Errorf("nodeId=%d, condition node should have at least one condition", c.id)
	}
	if res := expression.ValidateWithCount(c.expression, len(c.conditions)); !res.Valid {
		return fmt.Errorf("nodeId=%d, invalid expression: %s", c.id, res.Error)
	}
	if err := c.requireNext("true"); err != nil {
		return err
	}
	return c.requireNext("false")
}

func (c *conditionNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	logger.Info("running condition node", zap.String("name", c.name), zap.String("workflow", wfName), zap.String("id", flowContext.Id))
	results := condition.Resolve(c.conditions, flowContext.Data)
	outcome, err := expression.Evaluate(c.expression, results)
	if err != nil {
		// never pick a branch on a broken expression
		return "", nil, fmt.Errorf("nodeId=%d, error evaluating expression: %w", c.id, err)
	}
	if outcome {
		return "true", nil, nil
	}
	return "false", nil, nil
}
