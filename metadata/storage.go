package metadata

import "github.com/Stelujin-Datacraft/topsqill/model"

type MetadataStorage interface {
	SaveWorkflowDefinition(wf model.Workflow) error
	DeleteWorkflowDefinition(name string) error
	GetWorkflowDefinition(name string) (*model.Workflow, error)
	ListWorkflowDefinitions() ([]model.Workflow, error)
	SaveFormDefinition(form model.Form) error
	DeleteFormDefinition(name string) error
	GetFormDefinition(name string) (*model.Form, error)
	ListFormDefinitions() ([]model.Form, error)
}
