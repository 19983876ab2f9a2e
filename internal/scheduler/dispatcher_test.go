package scheduler

import (
	"context"
	"testing"
	"time"

	"GemScheduler/internal/domain"
)

func newTestDispatcher(store *fakeStore, api *fakeAPI, now time.Time) (*Dispatcher, *[]time.Duration) {
	sleeps := []time.Duration{}
	d := NewDispatcher(store, api)
	d.now = func() time.Time { return now }
	d.sleep = func(dur time.Duration) { sleeps = append(sleeps, dur) }
	return d, &sleeps
}

func runningSchedule(id int, profileDelay, loopDelay int) domain.Schedule {
	return domain.Schedule{
		ID:           id,
		Name:         "sched",
		ScriptID:     "script-1",
		StartTime:    at("00:00:00"),
		EndTime:      at("01:00:00"),
		ProfileDelay: profileDelay,
		LoopDelay:    loopDelay,
		Status:       domain.StatusRunning,
	}
}

func TestDispatchNeverRunIsDue(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{runningSchedule(1, 5, 600)}
	store.members[1] = []domain.Profile{profile(101), profile(102)}
	store.params["script-1"] = map[string]any{"url": "https://example.com"}
	api := &fakeAPI{store: store}

	d, sleeps := newTestDispatcher(store, api, at("00:00:30"))
	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched = %d, want 1", n)
	}

	// 两个档案各一条成功日志
	if len(store.logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(store.logs))
	}
	for i, want := range []int{101, 102} {
		if store.logs[i].ProfileID != want || store.logs[i].Status != domain.LogStatusSuccess {
			t.Errorf("log[%d] = %+v, want profile %d success", i, store.logs[i], want)
		}
	}

	// N 个档案睡 N-1 次，每次 profile_delay 秒
	if len(*sleeps) != 1 || (*sleeps)[0] != 5*time.Second {
		t.Errorf("sleeps = %v, want [5s]", *sleeps)
	}

	// last_run 落在发车时刻
	if store.schedules[0].LastRun == nil || !store.schedules[0].LastRun.Equal(at("00:00:30")) {
		t.Errorf("last_run = %v, want 00:00:30", store.schedules[0].LastRun)
	}

	// 每次调用单个档案，参数用脚本默认值，closeBrowser=true
	if len(api.calls) != 2 {
		t.Fatalf("api calls = %d, want 2", len(api.calls))
	}
	for _, call := range api.calls {
		if call.ScriptID != "script-1" || len(call.ProfileIDs) != 1 || !call.Close {
			t.Errorf("unexpected call %+v", call)
		}
		if call.Parameters["url"] != "https://example.com" {
			t.Errorf("parameters = %v", call.Parameters)
		}
	}
}

func TestDispatchSetsLastRunBeforeFanout(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{runningSchedule(1, 0, 600)}
	store.members[1] = []domain.Profile{profile(101), profile(102)}
	api := &fakeAPI{store: store}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	events := *store.events
	if len(events) == 0 || events[0] != "last_run:1" {
		t.Fatalf("events = %v, want last_run first", events)
	}
}

func TestDispatchSkipsWithinLoopDelay(t *testing.T) {
	last := at("00:00:30")
	sch := runningSchedule(1, 5, 600)
	sch.LastRun = &last

	store := newFakeStore()
	store.schedules = []domain.Schedule{sch}
	store.members[1] = []domain.Profile{profile(101)}
	api := &fakeAPI{store: store}

	// 过了 270 秒 < loop_delay 600 秒：不发车
	d, _ := newTestDispatcher(store, api, at("00:05:00"))
	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 || len(store.logs) != 0 || len(api.calls) != 0 {
		t.Fatalf("dispatched=%d logs=%d calls=%d, want all zero", n, len(store.logs), len(api.calls))
	}
	if !store.schedules[0].LastRun.Equal(last) {
		t.Errorf("last_run changed to %v", store.schedules[0].LastRun)
	}
}

func TestDispatchProfileFailureDoesNotAbortPass(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{runningSchedule(1, 0, 600)}
	store.members[1] = []domain.Profile{profile(101), profile(102), profile(103)}
	api := &fakeAPI{store: store, fail: map[int]string{102: "timeout"}}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(store.logs) != 3 {
		t.Fatalf("logs = %d, want 3", len(store.logs))
	}
	if store.logs[0].Status != domain.LogStatusSuccess {
		t.Errorf("log[0] = %+v, want success", store.logs[0])
	}
	if store.logs[1].ProfileID != 102 || store.logs[1].Status != domain.LogStatusFailed || store.logs[1].Message != "timeout" {
		t.Errorf("log[1] = %+v, want profile 102 failed with remote message", store.logs[1])
	}
	// 102 失败不影响 103 继续跑
	if store.logs[2].ProfileID != 103 || store.logs[2].Status != domain.LogStatusSuccess {
		t.Errorf("log[2] = %+v, want profile 103 success", store.logs[2])
	}
}

func TestDispatchEmptyMembershipIsNoop(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{runningSchedule(1, 5, 600)}
	api := &fakeAPI{store: store}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 空成员不算错：不发车、不写日志、不动 last_run
	if n != 0 || len(store.logs) != 0 {
		t.Fatalf("dispatched=%d logs=%d, want zero", n, len(store.logs))
	}
	if store.schedules[0].LastRun != nil {
		t.Errorf("last_run = %v, want nil", store.schedules[0].LastRun)
	}
}

func TestDispatchScheduleFaultIsolated(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{
		runningSchedule(1, 0, 600),
		runningSchedule(2, 0, 600),
	}
	store.members[2] = []domain.Profile{profile(201)}
	store.membersErr[1] = errStoreDown // 调度 1 查成员就挂
	api := &fakeAPI{store: store}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 调度 1 本轮作废，调度 2 照常发车
	if n != 1 {
		t.Fatalf("dispatched = %d, want 1", n)
	}
	if len(store.logs) != 1 || store.logs[0].ScheduleID != 2 {
		t.Fatalf("logs = %+v, want one row for schedule 2", store.logs)
	}
}

func TestDispatchLogFailureAbortsRemainingProfiles(t *testing.T) {
	store := newFakeStore()
	store.schedules = []domain.Schedule{runningSchedule(1, 0, 600)}
	store.members[1] = []domain.Profile{profile(101), profile(102), profile(103)}
	store.logErr[102] = errStoreDown
	api := &fakeAPI{store: store}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	n, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 {
		t.Fatalf("dispatched = %d, want 0 (pass aborted)", n)
	}
	// 101 的日志已经写进去了，102 写失败后 103 不再执行
	if len(store.logs) != 1 || store.logs[0].ProfileID != 101 {
		t.Fatalf("logs = %+v, want only profile 101", store.logs)
	}
	if len(api.calls) != 2 {
		t.Errorf("api calls = %d, want 2 (103 skipped)", len(api.calls))
	}
}

func TestDispatchListFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.listErr = errStoreDown
	api := &fakeAPI{store: store}

	d, _ := newTestDispatcher(store, api, at("00:00:30"))
	if _, err := d.Run(context.Background()); err == nil {
		t.Fatal("want error when running-schedule listing fails")
	}
}
