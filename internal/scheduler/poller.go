package scheduler

import (
	"context"
	"log"
	"time"

	"GemScheduler/internal/metrics"

	"github.com/google/uuid"
)

// Poller 轮询入口：一次调用 = 一轮 = 先推状态再发车。
// 设计上假定外部触发间隔远大于单轮耗时，这里不做互斥锁，
// 两轮重叠是已知的运维约束而不是代码要修的 bug。
type Poller struct {
	lifecycle  *Lifecycle
	dispatcher *Dispatcher
	recorder   *metrics.Recorder
}

func NewPoller(store Store, api AutomationAPI, recorder *metrics.Recorder) *Poller {
	return &Poller{
		lifecycle:  NewLifecycle(store),
		dispatcher: NewDispatcher(store, api),
		recorder:   recorder,
	}
}

// RunOnce 跑一轮。返回的 error 只代表进程级故障（存储不可用），
// 单个档案或单个调度的失败在下层就已经消化掉了。
func (p *Poller) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	startedAt := time.Now()
	log.Printf("poll %s started", runID)

	started, completed, err := p.lifecycle.Advance(ctx)
	if err != nil {
		return err
	}

	dispatched, err := p.dispatcher.Run(ctx)
	if err != nil {
		return err
	}

	p.recorder.RecordPass(ctx, metrics.PassSummary{
		RunID:      runID,
		At:         startedAt,
		Started:    started,
		Completed:  completed,
		Dispatched: dispatched,
	})

	log.Printf("poll %s finished: started=%d completed=%d dispatched=%d elapsed=%s",
		runID, started, completed, dispatched, time.Since(startedAt).Round(time.Millisecond))
	return nil
}
