package redis

import (
	"context"
	"errors"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/Stelujin-Datacraft/topsqill/util"
	rd "github.com/go-redis/redis/v9"
)

const FLOW_KEY string = "FLOW"

var _ persistence.FlowDao = new(redisFlowDao)

type redisFlowDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.FlowContext]
}

func NewRedisFlowDao(conf Config) *redisFlowDao {
	return &redisFlowDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.FlowContext](),
	}
}

func (r *redisFlowDao) SaveFlowContext(wfName string, flowId string, flowCtx *model.FlowContext) error {
	key := r.getNamespaceKey(FLOW_KEY, wfName)
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(*flowCtx)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, key, []string{flowId, string(data)}).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisFlowDao) GetFlowContext(wfName string, flowId string) (*model.FlowContext, error) {
	key := r.getNamespaceKey(FLOW_KEY, wfName)
	ctx := context.Background()
	flowCtxStr, err := r.redisClient.HGet(ctx, key, flowId).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "flow", Name: flowId}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(flowCtxStr))
}

func (r *redisFlowDao) DeleteFlowContext(wfName string, flowId string) error {
	key := r.getNamespaceKey(FLOW_KEY, wfName)
	ctx := context.Background()
	if err := r.redisClient.HDel(ctx, key, flowId).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
