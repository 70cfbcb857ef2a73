package model

type Workflow struct {
	Name      string    `json:"name" yaml:"name"`
	FormName  string    `json:"formName" yaml:"formName"`
	RootNode  int       `json:"rootNode" yaml:"rootNode"`
	Nodes     []NodeDef `json:"nodes" yaml:"nodes"`
	OnFailure string    `json:"onFailure" yaml:"onFailure"`
	OnSuccess string    `json:"onSuccess" yaml:"onSuccess"`
}

type NodeDef struct {
	Id           int              `json:"id" yaml:"id"`
	Type         string           `json:"type" yaml:"type"`
	Name         string           `json:"name" yaml:"name"`
	InputParams  map[string]any   `json:"parameters" yaml:"parameters"`
	Next         map[string][]int `json:"next" yaml:"next"`
	Expression   string           `json:"expression" yaml:"expression"`
	Conditions   []ConditionDef   `json:"conditions" yaml:"conditions"`
	DelaySeconds int              `json:"delaySeconds" yaml:"delaySeconds"`
	Event        string           `json:"event" yaml:"event"`
}

type ConditionSource string

const CONDITION_SOURCE_FORM ConditionSource = "form"
const CONDITION_SOURCE_FIELD ConditionSource = "field"

type ConditionOperator string

const OP_EQUALS ConditionOperator = "equals"
const OP_NOT_EQUALS ConditionOperator = "not_equals"
const OP_CONTAINS ConditionOperator = "contains"
const OP_NOT_CONTAINS ConditionOperator = "not_contains"
const OP_GREATER_THAN ConditionOperator = "greater_than"
const OP_LESS_THAN ConditionOperator = "less_than"
const OP_IS_EMPTY ConditionOperator = "is_empty"
const OP_IS_NOT_EMPTY ConditionOperator = "is_not_empty"
const OP_IN ConditionOperator = "in"

// ConditionDef is one independently evaluated condition slot. Slots are
// positional: the slot number referenced from a condition node expression is
// the 1-based index of the definition in the node's Conditions list.
type ConditionDef struct {
	Source   ConditionSource   `json:"source" yaml:"source"`
	FieldId  string            `json:"fieldId" yaml:"fieldId"`
	Operator ConditionOperator `json:"operator" yaml:"operator"`
	Value    any               `json:"value" yaml:"value"`
}

type WorkflowRunRequest struct {
	Name  string         `json:"name" yaml:"name"`
	Input map[string]any `json:"input" yaml:"input"`
}

type WorkflowEvent struct {
	Name   string `json:"name" yaml:"name"`
	FlowId string `json:"flowId" yaml:"flowId"`
	Event  string `json:"event" yaml:"event"`
}
