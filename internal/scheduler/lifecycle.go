package scheduler

import (
	"context"
	"log"
	"time"
)

// Lifecycle 按墙钟时间批量推进调度状态：
// pending -> running（start_time 已到），running -> completed（end_time 已到）。
// 两条都是集合式 UPDATE，重复执行对已推进的行是空操作。
type Lifecycle struct {
	store Store
	now   func() time.Time
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// Advance 执行一轮状态推进，任一步的存储错误都让整轮失败
func (l *Lifecycle) Advance(ctx context.Context) (started, completed int64, err error) {
	now := l.now()

	started, err = l.store.StartDueSchedules(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	if started > 0 {
		log.Printf("started %d pending schedule(s)", started)
	}

	completed, err = l.store.CompleteDueSchedules(ctx, now)
	if err != nil {
		return started, 0, err
	}
	if completed > 0 {
		log.Printf("completed %d schedule(s)", completed)
	}
	return started, completed, nil
}
