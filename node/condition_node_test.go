package node

import (
	"testing"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conditionNodeDef(expr string, conditions []model.ConditionDef) model.NodeDef {
	return model.NodeDef{
		Id:         2,
		Type:       "condition",
		Name:       "check priority",
		Expression: expr,
		Conditions: conditions,
		Next:       map[string][]int{"true": {3}, "false": {4}},
	}
}

func highPriorityConditions() []model.ConditionDef {
	return []model.ConditionDef{
		{Source: model.CONDITION_SOURCE_FIELD, FieldId: "priority", Operator: model.OP_EQUALS, Value: "high"},
		{Source: model.CONDITION_SOURCE_FIELD, FieldId: "amount", Operator: model.OP_GREATER_THAN, Value: 100},
	}
}

func TestConditionNodeExecute(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		input map[string]any
		want  string
	}{
		{
			name:  "all conditions met",
			expr:  "1 AND 2",
			input: map[string]any{"priority": "high", "amount": 500.0},
			want:  "true",
		},
		{
			name:  "one condition fails",
			expr:  "1 AND 2",
			input: map[string]any{"priority": "high", "amount": 50.0},
			want:  "false",
		},
		{
			name:  "or rescues the branch",
			expr:  "1 OR 2",
			input: map[string]any{"priority": "low", "amount": 500.0},
			want:  "true",
		},
		{
			name:  "negated condition",
			expr:  "NOT 1",
			input: map[string]any{"priority": "low", "amount": 0.0},
			want:  "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Build(conditionNodeDef(tt.expr, highPriorityConditions()))
			require.NoError(t, err)
			require.NoError(t, n.Validate())

			flowCtx := &model.FlowContext{Id: "f1", Data: map[string]any{"input": tt.input}}
			event, output, err := n.Execute("ticket-escalation", flowCtx)
			require.NoError(t, err)
			assert.Nil(t, output)
			assert.Equal(t, tt.want, event)
		})
	}
}

func TestConditionNodeExecuteFailsLoudly(t *testing.T) {
	// A stored expression referencing slots beyond the condition list must
	// surface an error, not fall through to the false branch.
	def := conditionNodeDef("1 AND 3", highPriorityConditions())
	n, err := Build(def)
	require.NoError(t, err)

	flowCtx := &model.FlowContext{Id: "f1", Data: map[string]any{"input": map[string]any{"priority": "high"}}}
	event, _, err := n.Execute("ticket-escalation", flowCtx)
	require.Error(t, err)
	assert.Empty(t, event)
	assert.Contains(t, err.Error(), "out of range")
}

func TestConditionNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.NodeDef)
		errPart string
	}{
		{
			name:    "no conditions",
			mutate:  func(d *model.NodeDef) { d.Conditions = nil },
			errPart: "at least one condition",
		},
		{
			name:    "syntax error in expression",
			mutate:  func(d *model.NodeDef) { d.Expression = "1 AND" },
			errPart: "invalid expression",
		},
		{
			name:    "expression out of range",
			mutate:  func(d *model.NodeDef) { d.Expression = "1 AND 5" },
			errPart: "out of range",
		},
		{
			name:    "missing false branch",
			mutate:  func(d *model.NodeDef) { d.Next = map[string][]int{"true": {3}} },
			errPart: `"false" next`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionNodeDef("1 AND 2", highPriorityConditions())
			tt.mutate(&def)
			n, err := Build(def)
			require.NoError(t, err)
			err = n.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
