package domain

import "time"

// 调度状态机：pending -> running -> completed 由轮询自动推进，
// stopped 只能由操作员手动触发，且不会被自动扫描改写
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
)

// Schedule 核心可变实体：在时间窗口内把一个脚本周期性地跑在一组档案上
type Schedule struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	ScriptID     string     `json:"script_id"`     // 外键 -> scripts.id
	StartTime    time.Time  `json:"start_time"`    // 窗口起点
	EndTime      time.Time  `json:"end_time"`      // 窗口终点，必须晚于起点
	ProfileDelay int        `json:"profile_delay"` // 同一轮内档案之间的间隔（秒）
	LoopDelay    int        `json:"loop_delay"`    // 两轮之间的间隔（秒）
	Status       string     `json:"status"`
	CreatedBy    *int       `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastRun      *time.Time `json:"last_run,omitempty"` // 从未跑过为 nil
}

// DueForDispatch 判断该调度是否到了下一轮的发车时间；从未跑过视为立刻到期
func (s *Schedule) DueForDispatch(now time.Time) bool {
	if s.LastRun == nil {
		return true
	}
	return now.Sub(*s.LastRun) >= time.Duration(s.LoopDelay)*time.Second
}

const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
)

// ScheduleLog 每个 (schedule, profile, 轮次) 的执行记录，只追加不修改
type ScheduleLog struct {
	ID         int       `json:"id"`
	ScheduleID int       `json:"schedule_id"`
	ProfileID  int       `json:"profile_id"`
	Status     string    `json:"status"` // success | failed
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
