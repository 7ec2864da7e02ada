package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRunNotFound = errors.New("分配任务不存在或已过期")
	ErrRunConflict = errors.New("分配任务正在被其他请求修改，请稍后重试")
)

// 乐观锁冲突时的最大重试次数
const maxUpdateRetries = 5

type Store struct {
	rdb        *redis.Client
	expiration time.Duration
}

func New(rdb *redis.Client, expiration time.Duration) *Store {
	return &Store{
		rdb:        rdb,
		expiration: expiration,
	}
}

func runKey(id string) string {
	return fmt.Sprintf("allocation_run_%s", id)
}

// Save 写入任务并刷新过期时间
func (s *Store) Save(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, runKey(run.ID), data, s.expiration).Err()
}

func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.rdb.Get(ctx, runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	return decodeRun(id, data)
}

// Update 读取最新的任务交给 fn 修改后写回，WATCH 期间任务被其他客户端修改时重新读取
func (s *Store) Update(ctx context.Context, id string, fn func(run *Run) error) error {
	key := runKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrRunNotFound
			}
			return err
		}

		run, err := decodeRun(id, data)
		if err != nil {
			return err
		}
		if err := fn(run); err != nil {
			return err
		}

		data, err = json.Marshal(run)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.expiration)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return ErrRunConflict
}

func decodeRun(id string, data []byte) (*Run, error) {
	run := &Run{}
	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("无法解析分配任务 %s: %w", id, err)
	}
	return run, nil
}
