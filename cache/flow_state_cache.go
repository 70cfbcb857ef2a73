package cache

import (
	"time"

	"github.com/Stelujin-Datacraft/topsqill/model"
	c "github.com/patrickmn/go-cache"
)

// FlowStateCache keeps the last observed state of each flow so state
// transitions can be checked without a storage round trip.
type FlowStateCache struct {
	cache *c.Cache
}

func NewFlowStateCache() *FlowStateCache {
	return &FlowStateCache{
		cache: c.New(c.NoExpiration, 10*time.Minute),
	}
}

func (ch *FlowStateCache) SaveFlowState(flowId string, state model.FlowState) {
	ch.cache.Set(flowId, state, c.NoExpiration)
}

func (ch *FlowStateCache) GetFlowState(flowId string) (model.FlowState, bool) {
	value, found := ch.cache.Get(flowId)
	if found {
		return value.(model.FlowState), true
	}
	return model.FlowState(0), false
}

func (ch *FlowStateCache) DeleteFlowState(flowId string) {
	ch.cache.Delete(flowId)
}
