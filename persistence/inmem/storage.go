// Package inmem provides go-cache backed implementations of the storage
// interfaces, used for local development and tests.
package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/Stelujin-Datacraft/topsqill/util"
	c "github.com/patrickmn/go-cache"
)

var _ metadata.MetadataStorage = new(inMemMetadataStorage)

type inMemMetadataStorage struct {
	workflows *c.Cache
	forms     *c.Cache
}

func NewInMemMetadataStorage() *inMemMetadataStorage {
	return &inMemMetadataStorage{
		workflows: c.New(c.NoExpiration, 10*time.Minute),
		forms:     c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (s *inMemMetadataStorage) SaveWorkflowDefinition(wf model.Workflow) error {
	s.workflows.Set(wf.Name, wf, c.NoExpiration)
	return nil
}

func (s *inMemMetadataStorage) DeleteWorkflowDefinition(name string) error {
	s.workflows.Delete(name)
	return nil
}

func (s *inMemMetadataStorage) GetWorkflowDefinition(name string) (*model.Workflow, error) {
	value, found := s.workflows.Get(name)
	if !found {
		return nil, persistence.NotFoundError{Kind: "workflow", Name: name}
	}
	wf := value.(model.Workflow)
	return &wf, nil
}

func (s *inMemMetadataStorage) ListWorkflowDefinitions() ([]model.Workflow, error) {
	items := s.workflows.Items()
	workflows := make([]model.Workflow, 0, len(items))
	for _, item := range items {
		workflows = append(workflows, item.Object.(model.Workflow))
	}
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].Name < workflows[j].Name })
	return workflows, nil
}

func (s *inMemMetadataStorage) SaveFormDefinition(form model.Form) error {
	s.forms.Set(form.Name, form, c.NoExpiration)
	return nil
}

func (s *inMemMetadataStorage) DeleteFormDefinition(name string) error {
	s.forms.Delete(name)
	return nil
}

func (s *inMemMetadataStorage) GetFormDefinition(name string) (*model.Form, error) {
	value, found := s.forms.Get(name)
	if !found {
		return nil, persistence.NotFoundError{Kind: "form", Name: name}
	}
	form := value.(model.Form)
	return &form, nil
}

func (s *inMemMetadataStorage) ListFormDefinitions() ([]model.Form, error) {
	items := s.forms.Items()
	forms := make([]model.Form, 0, len(items))
	for _, item := range items {
		forms = append(forms, item.Object.(model.Form))
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Name < forms[j].Name })
	return forms, nil
}

var _ persistence.FlowDao = new(inMemFlowDao)

// inMemFlowDao stores contexts serialized, never by reference: the engine
// goroutine mutates a context's maps while api readers fetch it, so handing
// out shared maps would race.
type inMemFlowDao struct {
	flows          *c.Cache
	encoderDecoder util.EncoderDecoder[model.FlowContext]
}

func NewInMemFlowDao() *inMemFlowDao {
	return &inMemFlowDao{
		flows:          c.New(c.NoExpiration, 10*time.Minute),
		encoderDecoder: util.NewJsonEncoderDecoder[model.FlowContext](),
	}
}

func flowKey(wfName, flowId string) string {
	return wfName + ":" + flowId
}

func (d *inMemFlowDao) SaveFlowContext(wfName string, flowId string, flowCtx *model.FlowContext) error {
	data, err := d.encoderDecoder.Encode(*flowCtx)
	if err != nil {
		return err
	}
	d.flows.Set(flowKey(wfName, flowId), data, c.NoExpiration)
	return nil
}

func (d *inMemFlowDao) GetFlowContext(wfName string, flowId string) (*model.FlowContext, error) {
	value, found := d.flows.Get(flowKey(wfName, flowId))
	if !found {
		return nil, persistence.NotFoundError{Kind: "flow", Name: flowId}
	}
	return d.encoderDecoder.Decode(value.([]byte))
}

func (d *inMemFlowDao) DeleteFlowContext(wfName string, flowId string) error {
	d.flows.Delete(flowKey(wfName, flowId))
	return nil
}

var _ persistence.DelayQueue = new(inMemDelayQueue)

type inMemDelayQueue struct {
	mu    sync.Mutex
	items []delayedEntry
}

type delayedEntry struct {
	readyAt time.Time
	item    persistence.DelayedFlow
}

func NewInMemDelayQueue() *inMemDelayQueue {
	return &inMemDelayQueue{}
}

func (q *inMemDelayQueue) PushWithDelay(delay time.Duration, item persistence.DelayedFlow) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, delayedEntry{readyAt: time.Now().Add(delay), item: item})
	return nil
}

func (q *inMemDelayQueue) PopExpired() ([]persistence.DelayedFlow, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := time.Now()
	var expired []persistence.DelayedFlow
	var remaining []delayedEntry
	for _, entry := range q.items {
		if entry.readyAt.Before(now) || entry.readyAt.Equal(now) {
			expired = append(expired, entry.item)
		} else {
			remaining = append(remaining, entry)
		}
	}
	q.items = remaining
	return expired, nil
}
