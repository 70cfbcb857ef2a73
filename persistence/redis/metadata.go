package redis

import (
	"context"
	"errors"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/Stelujin-Datacraft/topsqill/util"
	rd "github.com/go-redis/redis/v9"
	"go.uber.org/zap"
)

const WORKFLOW_DEF string = "WORKFLOW"
const FORM_DEF string = "FORM"

var _ metadata.MetadataStorage = new(redisMetadataStorage)

type redisMetadataStorage struct {
	*baseDao
	workflowEncDec util.EncoderDecoder[model.Workflow]
	formEncDec     util.EncoderDecoder[model.Form]
}

func NewRedisMetadataStorage(conf Config) *redisMetadataStorage {
	return &redisMetadataStorage{
		baseDao:        newBaseDao(conf),
		workflowEncDec: util.NewJsonEncoderDecoder[model.Workflow](),
		formEncDec:     util.NewJsonEncoderDecoder[model.Form](),
	}
}

func (s *redisMetadataStorage) SaveWorkflowDefinition(wf model.Workflow) error {
	data, err := s.workflowEncDec.Encode(wf)
	if err != nil {
		return err
	}
	key := s.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	if err := s.redisClient.HSet(ctx, key, []string{wf.Name, string(data)}).Err(); err != nil {
		logger.Error("error in saving workflow definition", zap.String("workflow", wf.Name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisMetadataStorage) DeleteWorkflowDefinition(name string) error {
	key := s.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	if err := s.redisClient.HDel(ctx, key, name).Err(); err != nil {
		logger.Error("error in deleting workflow definition", zap.String("workflow", name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisMetadataStorage) GetWorkflowDefinition(name string) (*model.Workflow, error) {
	key := s.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	wfStr, err := s.redisClient.HGet(ctx, key, name).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "workflow", Name: name}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return s.workflowEncDec.Decode([]byte(wfStr))
}

func (s *redisMetadataStorage) ListWorkflowDefinitions() ([]model.Workflow, error) {
	key := s.getNamespaceKey(WORKFLOW_DEF)
	ctx := context.Background()
	all, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	workflows := make([]model.Workflow, 0, len(all))
	for _, wfStr := range all {
		wf, err := s.workflowEncDec.Decode([]byte(wfStr))
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *wf)
	}
	return workflows, nil
}

func (s *redisMetadataStorage) SaveFormDefinition(form model.Form) error {
	data, err := s.formEncDec.Encode(form)
	if err != nil {
		return err
	}
	key := s.getNamespaceKey(FORM_DEF)
	ctx := context.Background()
	if err := s.redisClient.HSet(ctx, key, []string{form.Name, string(data)}).Err(); err != nil {
		logger.Error("error in saving form definition", zap.String("form", form.Name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisMetadataStorage) DeleteFormDefinition(name string) error {
	key := s.getNamespaceKey(FORM_DEF)
	ctx := context.Background()
	if err := s.redisClient.HDel(ctx, key, name).Err(); err != nil {
		logger.Error("error in deleting form definition", zap.String("form", name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisMetadataStorage) GetFormDefinition(name string) (*model.Form, error) {
	key := s.getNamespaceKey(FORM_DEF)
	ctx := context.Background()
	formStr, err := s.redisClient.HGet(ctx, key, name).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "form", Name: name}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return s.formEncDec.Decode([]byte(formStr))
}

func (s *redisMetadataStorage) ListFormDefinitions() ([]model.Form, error) {
	key := s.getNamespaceKey(FORM_DEF)
	ctx := context.Background()
	all, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	forms := make([]model.Form, 0, len(all))
	for _, formStr := range all {
		form, err := s.formEncDec.Decode([]byte(formStr))
		if err != nil {
			return nil, err
		}
		forms = append(forms, *form)
	}
	return forms, nil
}
