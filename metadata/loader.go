package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type definitionFile struct {
	Form     *model.Form     `yaml:"form"`
	Workflow *model.Workflow `yaml:"workflow"`
}

// LoadDefinitions reads form and workflow definitions from yaml files in a
// directory and stores them after validation. Forms load before workflows so
// workflows can reference forms defined in the same directory.
func LoadDefinitions(service MetadataService, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading definition directory %s: %w", dir, err)
	}
	var files []definitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var def definitionFile
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("error parsing definition file %s: %w", path, err)
		}
		if def.Form == nil && def.Workflow == nil {
			return fmt.Errorf("definition file %s has neither a form nor a workflow", path)
		}
		files = append(files, def)
	}
	for _, def := range files {
		if def.Form == nil {
			continue
		}
		if err := service.ValidateForm(*def.Form); err != nil {
			return err
		}
		if err := service.GetMetadataStorage().SaveFormDefinition(*def.Form); err != nil {
			return err
		}
		logger.Info("loaded form definition", zap.String("form", def.Form.Name))
	}
	for _, def := range files {
		if def.Workflow == nil {
			continue
		}
		if err := service.ValidateWorkflow(*def.Workflow); err != nil {
			return err
		}
		if err := service.GetMetadataStorage().SaveWorkflowDefinition(*def.Workflow); err != nil {
			return err
		}
		logger.Info("loaded workflow definition", zap.String("workflow", def.Workflow.Name))
	}
	return nil
}
