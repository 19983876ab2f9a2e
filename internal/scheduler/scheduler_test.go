package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"GemScheduler/internal/domain"
	"GemScheduler/internal/gemlogin"
)

// 内存版 Store：状态推进按和 SQL 相同的谓词执行，测试用
type fakeStore struct {
	schedules []domain.Schedule
	members   map[int][]domain.Profile
	params    map[string]map[string]any
	logs      []fakeLog
	events    *[]string // 跨 store/api 的调用顺序记录

	listErr    error
	membersErr map[int]error
	logErr     map[int]error // profile_id -> 写日志失败
}

type fakeLog struct {
	ScheduleID int
	ProfileID  int
	Status     string
	Message    string
}

func newFakeStore() *fakeStore {
	events := []string{}
	return &fakeStore{
		members:    map[int][]domain.Profile{},
		params:     map[string]map[string]any{},
		membersErr: map[int]error{},
		logErr:     map[int]error{},
		events:     &events,
	}
}

func (s *fakeStore) record(ev string) {
	*s.events = append(*s.events, ev)
}

func (s *fakeStore) StartDueSchedules(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for i := range s.schedules {
		sch := &s.schedules[i]
		if sch.Status == domain.StatusPending && !sch.StartTime.After(now) {
			sch.Status = domain.StatusRunning
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CompleteDueSchedules(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for i := range s.schedules {
		sch := &s.schedules[i]
		if sch.Status == domain.StatusRunning && !sch.EndTime.After(now) {
			sch.Status = domain.StatusCompleted
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ListRunningSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var res []domain.Schedule
	for _, sch := range s.schedules {
		if sch.Status == domain.StatusRunning {
			res = append(res, sch)
		}
	}
	return res, nil
}

func (s *fakeStore) ListScheduleProfiles(ctx context.Context, scheduleID int) ([]domain.Profile, error) {
	if err := s.membersErr[scheduleID]; err != nil {
		return nil, err
	}
	return s.members[scheduleID], nil
}

func (s *fakeStore) GetScriptDefaultParameters(ctx context.Context, scriptID string) (map[string]any, error) {
	if p, ok := s.params[scriptID]; ok {
		return p, nil
	}
	return map[string]any{}, nil
}

func (s *fakeStore) UpdateScheduleLastRun(ctx context.Context, id int, t time.Time) error {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			lr := t
			s.schedules[i].LastRun = &lr
		}
	}
	s.record("last_run:" + strconv.Itoa(id))
	return nil
}

func (s *fakeStore) InsertScheduleLog(ctx context.Context, scheduleID, profileID int, status, message string) error {
	if err := s.logErr[profileID]; err != nil {
		return err
	}
	s.logs = append(s.logs, fakeLog{scheduleID, profileID, status, message})
	s.record(fmt.Sprintf("log:%d:%d", scheduleID, profileID))
	return nil
}

// 假客户端：按 profile_id 配置失败，记录每次调用
type fakeAPI struct {
	store *fakeStore
	calls []execCall
	fail  map[int]string // profile_id -> 失败消息
}

type execCall struct {
	ScriptID   string
	ProfileIDs []int
	Parameters map[string]any
	Close      bool
}

func (a *fakeAPI) ExecuteScript(ctx context.Context, scriptID string, profileIDs []int, parameters map[string]any, closeBrowser bool) gemlogin.Result {
	a.calls = append(a.calls, execCall{scriptID, profileIDs, parameters, closeBrowser})
	if a.store != nil {
		a.store.record("exec:" + strconv.Itoa(profileIDs[0]))
	}
	if msg, ok := a.fail[profileIDs[0]]; ok {
		return gemlogin.Result{Success: false, Message: msg}
	}
	return gemlogin.Result{Success: true, Message: "Script started"}
}

var errStoreDown = errors.New("store unavailable")

func profile(id int) domain.Profile {
	return domain.Profile{ID: id, Name: "profile-" + strconv.Itoa(id)}
}

func at(hhmmss string) time.Time {
	t, err := time.Parse(time.RFC3339, "2024-01-01T"+hhmmss+"Z")
	if err != nil {
		panic(err)
	}
	return t
}
