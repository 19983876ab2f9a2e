// Package metrics 把轮询的运行指标写进 Redis，供管理 API 查询。
// 指标只是观测手段：Redis 不可用时记一条日志降级，不影响轮询本身。
package metrics

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	passesKey   = "metrics:poller:passes" // 累计轮次计数
	lastPassKey = "metrics:poller:last"   // 最近一轮的摘要 hash
)

// Connect 建立 Redis 连接并用 PING 验证可用
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

type Recorder struct {
	rdb *redis.Client
}

// NewRecorder rdb 传 nil 得到一个什么都不做的 Recorder
func NewRecorder(rdb *redis.Client) *Recorder {
	return &Recorder{rdb: rdb}
}

// PassSummary 一轮轮询的摘要
type PassSummary struct {
	RunID      string    // 本轮的关联 ID
	At         time.Time // 本轮开始时间
	Started    int64     // pending -> running 的行数
	Completed  int64     // running -> completed 的行数
	Dispatched int       // 本轮发车的调度数
}

// RecordPass 记录一轮轮询，写失败只告警
func (r *Recorder) RecordPass(ctx context.Context, s PassSummary) {
	if r == nil || r.rdb == nil {
		return
	}
	if err := r.rdb.Incr(ctx, passesKey).Err(); err != nil {
		log.Printf("metrics: incr passes failed: %v", err)
	}
	err := r.rdb.HSet(ctx, lastPassKey, map[string]any{
		"run_id":     s.RunID,
		"time":       s.At.Format(time.RFC3339),
		"started":    s.Started,
		"completed":  s.Completed,
		"dispatched": s.Dispatched,
	}).Err()
	if err != nil {
		log.Printf("metrics: record last pass failed: %v", err)
	}
}

// LastPass 给管理 API 用：累计轮次 + 最近一轮摘要
func (r *Recorder) LastPass(ctx context.Context) (int64, map[string]string, error) {
	if r == nil || r.rdb == nil {
		return 0, nil, nil
	}
	passes, err := r.rdb.Get(ctx, passesKey).Int64()
	if err != nil && err != redis.Nil {
		return 0, nil, err
	}
	last, err := r.rdb.HGetAll(ctx, lastPassKey).Result()
	if err != nil {
		return 0, nil, err
	}
	return passes, last, nil
}
