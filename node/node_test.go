package node

import (
	"testing"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		nodeType string
		wantType NodeType
	}{
		{nodeType: "trigger", wantType: NODE_TYPE_TRIGGER},
		{nodeType: "condition", wantType: NODE_TYPE_CONDITION},
		{nodeType: "Switch", wantType: NODE_TYPE_SWITCH},
		{nodeType: "delay", wantType: NODE_TYPE_DELAY},
		{nodeType: "wait", wantType: NODE_TYPE_WAIT},
		{nodeType: "approval", wantType: NODE_TYPE_APPROVAL},
		{nodeType: "script", wantType: NODE_TYPE_SCRIPT},
		{nodeType: "jsonmap", wantType: NODE_TYPE_JSONMAP},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			n, err := Build(model.NodeDef{Id: 1, Type: tt.nodeType})
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, n.GetType())
		})
	}

	_, err := Build(model.NodeDef{Id: 1, Type: "webhook"})
	require.Error(t, err)
}

func TestScriptNodeExecute(t *testing.T) {
	def := model.NodeDef{
		Id:         3,
		Type:       "script",
		Name:       "escalate",
		Expression: `$.escalated = $.input.amount > 100;`,
		Next:       map[string][]int{"default": {4}},
	}
	n, err := Build(def)
	require.NoError(t, err)
	require.NoError(t, n.Validate())

	flowCtx := &model.FlowContext{Id: "f1", Data: map[string]any{"input": map[string]any{"amount": 250}}}
	event, output, err := n.Execute("wf", flowCtx)
	require.NoError(t, err)
	assert.Equal(t, "default", event)
	assert.Equal(t, true, output["escalated"])
}

func TestScriptNodeBadScript(t *testing.T) {
	n, err := Build(model.NodeDef{Id: 3, Type: "script", Expression: "syntax error here", Next: map[string][]int{"default": {4}}})
	require.NoError(t, err)
	_, _, err = n.Execute("wf", &model.FlowContext{Id: "f1", Data: map[string]any{}})
	require.Error(t, err)
}

func TestJsonMapNodeExecute(t *testing.T) {
	def := model.NodeDef{
		Id:   5,
		Type: "jsonmap",
		InputParams: map[string]any{
			"summary":  "ticket {$.input.id} from {$.input.requester}",
			"priority": "{$.input.priority}",
		},
		Next: map[string][]int{"default": {6}},
	}
	n, err := Build(def)
	require.NoError(t, err)

	data := map[string]any{"input": map[string]any{"id": "T-42", "requester": "alice", "priority": "high"}}
	event, output, err := n.Execute("wf", &model.FlowContext{Id: "f1", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "default", event)
	assert.Equal(t, "ticket T-42 from alice", output["summary"])
	assert.Equal(t, "high", output["priority"])
}

func TestSwitchNodeValidate(t *testing.T) {
	def := model.NodeDef{Id: 2, Type: "switch", Expression: "$.input.category", Next: map[string][]int{"hardware": {3}}}
	n, err := Build(def)
	require.NoError(t, err)
	require.Error(t, n.Validate(), "expression must be enclosed in {}")

	def.Expression = "{$.input.category}"
	n, err = Build(def)
	require.NoError(t, err)
	require.NoError(t, n.Validate())
}

func TestSwitchNodeExecute(t *testing.T) {
	def := model.NodeDef{Id: 2, Type: "switch", Expression: "{$.input.category}", Next: map[string][]int{"hardware": {3}, "default": {4}}}
	n, err := Build(def)
	require.NoError(t, err)

	data := map[string]any{"input": map[string]any{"category": "hardware"}}
	event, _, err := n.Execute("wf", &model.FlowContext{Id: "f1", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "hardware", event)
}
