package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	rd "github.com/go-redis/redis/v9"
	"go.uber.org/zap"
)

const DELAY_QUEUE string = "DELAY"

var _ persistence.DelayQueue = new(redisDelayQueue)

// redisDelayQueue keeps suspended flows in a sorted set scored by their
// resume time.
type redisDelayQueue struct {
	*baseDao
}

func NewRedisDelayQueue(conf Config) *redisDelayQueue {
	return &redisDelayQueue{
		baseDao: newBaseDao(conf),
	}
}

func (rq *redisDelayQueue) PushWithDelay(delay time.Duration, item persistence.DelayedFlow) error {
	key := rq.getNamespaceKey(DELAY_QUEUE)
	ctx := context.Background()
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	member := rd.Z{
		Score:  float64(time.Now().Add(delay).UnixMilli()),
		Member: data,
	}
	if err := rq.redisClient.ZAdd(ctx, key, member).Err(); err != nil {
		logger.Error("error while pushing to delay queue", zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rq *redisDelayQueue) PopExpired() ([]persistence.DelayedFlow, error) {
	key := rq.getNamespaceKey(DELAY_QUEUE)
	ctx := context.Background()
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	pipe := rq.redisClient.Pipeline()
	opt := &rd.ZRangeBy{
		Min: "0",
		Max: now,
	}
	zr := pipe.ZRangeByScore(ctx, key, opt)
	pipe.ZRemRangeByScore(ctx, key, "0", now)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("error while popping from delay queue", zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	members, err := zr.Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	items := make([]persistence.DelayedFlow, 0, len(members))
	for _, member := range members {
		var item persistence.DelayedFlow
		if err := json.Unmarshal([]byte(member), &item); err != nil {
			logger.Error("malformed delay queue entry", zap.String("entry", member), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
