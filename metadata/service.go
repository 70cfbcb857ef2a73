package metadata

import (
	"fmt"

	"github.com/Stelujin-Datacraft/topsqill/flow"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/node"
)

type MetadataService interface {
	GetFlow(name string, id string) (*flow.Flow, error)
	ValidateWorkflow(wf model.Workflow) error
	ValidateForm(form model.Form) error
	WorkflowsForForm(formName string) ([]model.Workflow, error)
	GetMetadataStorage() MetadataStorage
}

type MetadataServiceImpl struct {
	storage MetadataStorage
}

func NewMetadataService(storage MetadataStorage) MetadataService {
	return &MetadataServiceImpl{
		storage: storage,
	}
}

func (s *MetadataServiceImpl) GetFlow(name string, id string) (*flow.Flow, error) {
	wf, err := s.storage.GetWorkflowDefinition(name)
	if err != nil {
		return nil, err
	}
	return flow.Convert(wf, id)
}

// WorkflowsForForm returns the workflows triggered by submissions of a form.
func (s *MetadataServiceImpl) WorkflowsForForm(formName string) ([]model.Workflow, error) {
	all, err := s.storage.ListWorkflowDefinitions()
	if err != nil {
		return nil, err
	}
	var matched []model.Workflow
	for _, wf := range all {
		if wf.FormName == formName {
			matched = append(matched, wf)
		}
	}
	return matched, nil
}

func (s *MetadataServiceImpl) ValidateWorkflow(wf model.Workflow) error {
	if wf.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if err := flow.ValidateStateHandler(wf.OnFailure); err != nil {
		return err
	}
	if err := flow.ValidateStateHandler(wf.OnSuccess); err != nil {
		return err
	}
	if len(wf.FormName) > 0 {
		if _, err := s.storage.GetFormDefinition(wf.FormName); err != nil {
			return fmt.Errorf("workflow references form %s which is not defined", wf.FormName)
		}
	}
	allNodes := make(map[int]bool)
	for _, nodeDef := range wf.Nodes {
		if allNodes[nodeDef.Id] {
			return fmt.Errorf("node id %d is duplicate", nodeDef.Id)
		}
		allNodes[nodeDef.Id] = true
	}
	for _, nodeDef := range wf.Nodes {
		for event, targets := range nodeDef.Next {
			if targets == nil {
				return fmt.Errorf("invalid next for node %d event %s, should be array", nodeDef.Id, event)
			}
			for _, target := range targets {
				if !allNodes[target] {
					return fmt.Errorf("invalid next for node %d, node %d not defined", nodeDef.Id, target)
				}
			}
		}
	}
	if !allNodes[wf.RootNode] {
		return fmt.Errorf("no node with root node id %d in workflow", wf.RootNode)
	}
	for _, nodeDef := range wf.Nodes {
		n, err := node.Build(nodeDef)
		if err != nil {
			return err
		}
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *MetadataServiceImpl) ValidateForm(form model.Form) error {
	if form.Name == "" {
		return fmt.Errorf("form name is required")
	}
	fieldIds := make(map[string]bool)
	for _, field := range form.Fields {
		if field.Id == "" {
			return fmt.Errorf("form %s has a field without id", form.Name)
		}
		if fieldIds[field.Id] {
			return fmt.Errorf("field id %s is duplicate in form %s", field.Id, form.Name)
		}
		fieldIds[field.Id] = true
		if err := model.ValidateFieldKind(string(field.Kind)); err != nil {
			return fmt.Errorf("form %s field %s: %w", form.Name, field.Id, err)
		}
		if err := s.validateFieldConfig(form, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *MetadataServiceImpl) validateFieldConfig(form model.Form, field model.FieldDef) error {
	switch field.Kind {
	case model.FIELD_KIND_SELECT:
		if field.Select == nil || len(field.Select.Options) == 0 {
			return fmt.Errorf("form %s field %s: select field requires options", form.Name, field.Id)
		}
	case model.FIELD_KIND_REFERENCE:
		if field.Reference == nil || field.Reference.TargetForm == "" {
			return fmt.Errorf("form %s field %s: reference field requires a target form", form.Name, field.Id)
		}
		if _, err := s.storage.GetFormDefinition(field.Reference.TargetForm); err != nil {
			return fmt.Errorf("form %s field %s: target form %s is not defined", form.Name, field.Id, field.Reference.TargetForm)
		}
	case model.FIELD_KIND_CALCULATED:
		if field.Calculated == nil || field.Calculated.Formula == "" {
			return fmt.Errorf("form %s field %s: calculated field requires a formula", form.Name, field.Id)
		}
	case model.FIELD_KIND_MATRIX:
		if field.Matrix == nil || len(field.Matrix.Rows) == 0 || len(field.Matrix.Columns) == 0 {
			return fmt.Errorf("form %s field %s: matrix field requires rows and columns", form.Name, field.Id)
		}
	}
	return nil
}

func (s *MetadataServiceImpl) GetMetadataStorage() MetadataStorage {
	return s.storage
}
