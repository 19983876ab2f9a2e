package scheduler

import (
	"context"
	"log"
	"time"

	"GemScheduler/internal/domain"
)

// Dispatcher 对每个到期的 running 调度做一轮扇出：
// 逐个档案调用 ExecuteScript，轮内按 profile_delay 串行限速，
// 单个档案的失败只记日志不中断本轮，单个调度的故障不影响同轮的其它调度。
type Dispatcher struct {
	store Store
	api   AutomationAPI
	now   func() time.Time
	sleep func(time.Duration)
}

func NewDispatcher(store Store, api AutomationAPI) *Dispatcher {
	return &Dispatcher{
		store: store,
		api:   api,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Run 扫一遍 running 调度并给到期的发车，返回发车的调度数。
// ListRunningSchedules 失败说明存储不可用，整轮报错上抛。
func (d *Dispatcher) Run(ctx context.Context) (int, error) {
	schedules, err := d.store.ListRunningSchedules(ctx)
	if err != nil {
		return 0, err
	}
	if len(schedules) == 0 {
		log.Printf("no running schedules found")
		return 0, nil
	}
	log.Printf("processing %d running schedule(s)", len(schedules))

	dispatched := 0
	for i := range schedules {
		sch := &schedules[i]
		if !sch.DueForDispatch(d.now()) {
			continue
		}
		if err := d.dispatchOne(ctx, sch); err != nil {
			log.Printf("schedule %d (%s): pass aborted: %v", sch.ID, sch.Name, err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// dispatchOne 跑一个调度的一轮。返回 error 表示调度级故障
// （成员或参数查不出来、中途写库失败），该调度剩余档案放弃，不殃及别的调度。
func (d *Dispatcher) dispatchOne(ctx context.Context, sch *domain.Schedule) error {
	profiles, err := d.store.ListScheduleProfiles(ctx, sch.ID)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		// 空成员是合法状态：不发车、不造日志
		log.Printf("no profiles found for schedule %d", sch.ID)
		return nil
	}

	// 参数默认值一轮解析一次，不按档案重复查
	params, err := d.store.GetScriptDefaultParameters(ctx, sch.ScriptID)
	if err != nil {
		return err
	}

	// 发车前先写 last_run：慢轮次或半路故障都不会在同一轮询周期内重触发
	if err := d.store.UpdateScheduleLastRun(ctx, sch.ID, d.now()); err != nil {
		return err
	}

	log.Printf("processing schedule: %s (ID: %d), %d profile(s)", sch.Name, sch.ID, len(profiles))

	for i, p := range profiles {
		if i > 0 {
			// 轮内限速是对远端服务的刻意让步，只隔在档案之间，最后一个之后不等
			d.sleep(time.Duration(sch.ProfileDelay) * time.Second)
		}

		res := d.api.ExecuteScript(ctx, sch.ScriptID, []int{p.ID}, params, true)

		status := domain.LogStatusSuccess
		message := res.Message
		if res.Success {
			if message == "" {
				message = "Script executed successfully on profile " + p.Name
			}
			log.Printf("script executed on profile %s (ID: %d)", p.Name, p.ID)
		} else {
			status = domain.LogStatusFailed
			if message == "" {
				message = "Unknown error"
			}
			log.Printf("script execution failed on profile %s (ID: %d): %s", p.Name, p.ID, message)
		}

		if err := d.store.InsertScheduleLog(ctx, sch.ID, p.ID, status, message); err != nil {
			return err
		}
	}
	return nil
}
