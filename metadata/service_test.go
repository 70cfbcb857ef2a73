package metadata

import (
	"testing"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	workflows map[string]model.Workflow
	forms     map[string]model.Form
}

func newMemStorage() *memStorage {
	return &memStorage{
		workflows: map[string]model.Workflow{},
		forms:     map[string]model.Form{},
	}
}

func (m *memStorage) SaveWorkflowDefinition(wf model.Workflow) error {
	m.workflows[wf.Name] = wf
	return nil
}

func (m *memStorage) DeleteWorkflowDefinition(name string) error {
	delete(m.workflows, name)
	return nil
}

func (m *memStorage) GetWorkflowDefinition(name string) (*model.Workflow, error) {
	wf, ok := m.workflows[name]
	if !ok {
		return nil, assert.AnError
	}
	return &wf, nil
}

func (m *memStorage) ListWorkflowDefinitions() ([]model.Workflow, error) {
	var all []model.Workflow
	for _, wf := range m.workflows {
		all = append(all, wf)
	}
	return all, nil
}

func (m *memStorage) SaveFormDefinition(form model.Form) error {
	m.forms[form.Name] = form
	return nil
}

func (m *memStorage) DeleteFormDefinition(name string) error {
	delete(m.forms, name)
	return nil
}

func (m *memStorage) GetFormDefinition(name string) (*model.Form, error) {
	form, ok := m.forms[name]
	if !ok {
		return nil, assert.AnError
	}
	return &form, nil
}

func (m *memStorage) ListFormDefinitions() ([]model.Form, error) {
	var all []model.Form
	for _, form := range m.forms {
		all = append(all, form)
	}
	return all, nil
}

func validWorkflow() model.Workflow {
	return model.Workflow{
		Name:     "order-approval",
		RootNode: 1,
		Nodes: []model.NodeDef{
			{
				Id:   1,
				Type: "condition",
				Name: "check-amount",
				Conditions: []model.ConditionDef{
					{Source: model.CONDITION_SOURCE_FIELD, FieldId: "amount", Operator: model.OP_GREATER_THAN, Value: 100},
				},
				Expression: "1",
				Next:       map[string][]int{"true": {2}, "false": {3}},
			},
			{Id: 2, Type: "jsonmap", Name: "approve", InputParams: map[string]any{"result": "approved"}},
			{Id: 3, Type: "jsonmap", Name: "reject", InputParams: map[string]any{"result": "rejected"}},
		},
	}
}

func TestValidateWorkflow(t *testing.T) {
	service := NewMetadataService(newMemStorage())

	t.Run("valid workflow", func(t *testing.T) {
		require.NoError(t, service.ValidateWorkflow(validWorkflow()))
	})

	t.Run("missing name", func(t *testing.T) {
		wf := validWorkflow()
		wf.Name = ""
		require.Error(t, service.ValidateWorkflow(wf))
	})

	t.Run("duplicate node id", func(t *testing.T) {
		wf := validWorkflow()
		wf.Nodes = append(wf.Nodes, model.NodeDef{Id: 2, Type: "jsonmap"})
		err := service.ValidateWorkflow(wf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("next references unknown node", func(t *testing.T) {
		wf := validWorkflow()
		wf.Nodes[0].Next = map[string][]int{"true": {2}, "false": {99}}
		err := service.ValidateWorkflow(wf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not defined")
	})

	t.Run("root node not defined", func(t *testing.T) {
		wf := validWorkflow()
		wf.RootNode = 42
		require.Error(t, service.ValidateWorkflow(wf))
	})

	t.Run("condition node with invalid expression", func(t *testing.T) {
		wf := validWorkflow()
		wf.Nodes[0].Expression = "1 AND"
		require.Error(t, service.ValidateWorkflow(wf))
	})

	t.Run("condition node with out of range reference", func(t *testing.T) {
		wf := validWorkflow()
		wf.Nodes[0].Expression = "1 OR 2"
		require.Error(t, service.ValidateWorkflow(wf))
	})

	t.Run("workflow references undefined form", func(t *testing.T) {
		wf := validWorkflow()
		wf.FormName = "missing-form"
		require.Error(t, service.ValidateWorkflow(wf))
	})

	t.Run("invalid state handler", func(t *testing.T) {
		wf := validWorkflow()
		wf.OnFailure = "EXPLODE"
		require.Error(t, service.ValidateWorkflow(wf))
	})
}

func TestValidateForm(t *testing.T) {
	storage := newMemStorage()
	storage.forms["customer"] = model.Form{Name: "customer"}
	service := NewMetadataService(storage)

	t.Run("valid form", func(t *testing.T) {
		form := model.Form{
			Name: "order",
			Fields: []model.FieldDef{
				{Id: "amount", Kind: model.FIELD_KIND_NUMBER},
				{Id: "status", Kind: model.FIELD_KIND_SELECT, Select: &model.SelectConfig{Options: []string{"new", "done"}}},
				{Id: "customer", Kind: model.FIELD_KIND_REFERENCE, Reference: &model.ReferenceConfig{TargetForm: "customer"}},
				{Id: "total", Kind: model.FIELD_KIND_CALCULATED, Calculated: &model.CalculatedConfig{Formula: "$.input.amount * 2"}},
				{Id: "ratings", Kind: model.FIELD_KIND_MATRIX, Matrix: &model.MatrixConfig{Rows: []string{"a"}, Columns: []string{"1"}}},
			},
		}
		require.NoError(t, service.ValidateForm(form))
	})

	t.Run("duplicate field id", func(t *testing.T) {
		form := model.Form{
			Name: "order",
			Fields: []model.FieldDef{
				{Id: "amount", Kind: model.FIELD_KIND_NUMBER},
				{Id: "amount", Kind: model.FIELD_KIND_TEXT},
			},
		}
		require.Error(t, service.ValidateForm(form))
	})

	t.Run("unknown field kind", func(t *testing.T) {
		form := model.Form{Name: "order", Fields: []model.FieldDef{{Id: "x", Kind: "video"}}}
		require.Error(t, service.ValidateForm(form))
	})

	t.Run("select without options", func(t *testing.T) {
		form := model.Form{Name: "order", Fields: []model.FieldDef{{Id: "x", Kind: model.FIELD_KIND_SELECT}}}
		require.Error(t, service.ValidateForm(form))
	})

	t.Run("reference to undefined form", func(t *testing.T) {
		form := model.Form{Name: "order", Fields: []model.FieldDef{
			{Id: "x", Kind: model.FIELD_KIND_REFERENCE, Reference: &model.ReferenceConfig{TargetForm: "nope"}},
		}}
		require.Error(t, service.ValidateForm(form))
	})

	t.Run("calculated without formula", func(t *testing.T) {
		form := model.Form{Name: "order", Fields: []model.FieldDef{{Id: "x", Kind: model.FIELD_KIND_CALCULATED}}}
		require.Error(t, service.ValidateForm(form))
	})
}

func TestWorkflowsForForm(t *testing.T) {
	storage := newMemStorage()
	storage.workflows["wf1"] = model.Workflow{Name: "wf1", FormName: "order"}
	storage.workflows["wf2"] = model.Workflow{Name: "wf2", FormName: "customer"}
	service := NewMetadataService(storage)

	matched, err := service.WorkflowsForForm("order")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "wf1", matched[0].Name)
}

func TestGetFlow(t *testing.T) {
	storage := newMemStorage()
	storage.workflows["order-approval"] = validWorkflow()
	service := NewMetadataService(storage)

	fl, err := service.GetFlow("order-approval", "flow-1")
	require.NoError(t, err)
	assert.Equal(t, "flow-1", fl.Id)
	assert.Equal(t, 1, fl.RootNode)
	assert.Len(t, fl.Nodes, 3)
}
