package service

import (
	"context"
	"errors"
	"time"

	"GemScheduler/internal/domain"
	"GemScheduler/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrNegativeDelay     = errors.New("delays must be non-negative")
	ErrNoProfiles        = errors.New("at least one profile is required")
	ErrInvalidTransition = errors.New("schedule is not in a state that allows this action")
)

type ScheduleService struct {
	db *pgxpool.Pool
}

func NewScheduleService(db *pgxpool.Pool) *ScheduleService {
	return &ScheduleService{db: db}
}

type ScheduleParams struct {
	Name         string
	ScriptID     string
	StartTime    time.Time
	EndTime      time.Time
	ProfileDelay int
	LoopDelay    int
	ProfileIDs   []int
	CreatedBy    *int
}

func validate(p ScheduleParams) error {
	if !p.EndTime.After(p.StartTime) {
		return ErrEndBeforeStart
	}
	if p.ProfileDelay < 0 || p.LoopDelay < 0 {
		return ErrNegativeDelay
	}
	if len(p.ProfileIDs) == 0 {
		return ErrNoProfiles
	}
	return nil
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, p ScheduleParams) (int, error) {
	if err := validate(p); err != nil {
		return 0, err
	}
	sch := domain.Schedule{
		Name:         p.Name,
		ScriptID:     p.ScriptID,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		ProfileDelay: p.ProfileDelay,
		LoopDelay:    p.LoopDelay,
		CreatedBy:    p.CreatedBy,
	}
	return repo.CreateSchedule(ctx, s.db, &sch, p.ProfileIDs)
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, id int, p ScheduleParams) error {
	if err := validate(p); err != nil {
		return err
	}
	sch := domain.Schedule{
		ID:           id,
		Name:         p.Name,
		ScriptID:     p.ScriptID,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		ProfileDelay: p.ProfileDelay,
		LoopDelay:    p.LoopDelay,
	}
	return repo.UpdateSchedule(ctx, s.db, &sch, p.ProfileIDs)
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id int) (*domain.Schedule, []domain.Profile, error) {
	sch, err := repo.GetScheduleByID(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	profiles, err := repo.ListScheduleProfiles(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	return sch, profiles, nil
}

func (s *ScheduleService) ListSchedules(ctx context.Context, status string) ([]domain.Schedule, error) {
	return repo.ListSchedules(ctx, s.db, status)
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, id int) error {
	return repo.DeleteSchedule(ctx, s.db, id)
}

// StopSchedule 操作员手动停止，只允许 running -> stopped。
// stopped 是终态，自动扫描永远不会再碰这一行。
func (s *ScheduleService) StopSchedule(ctx context.Context, id int) error {
	ok, err := repo.UpdateScheduleStatus(ctx, s.db, id, domain.StatusRunning, domain.StatusStopped)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

// RestartSchedule 把 stopped 或 completed 的调度拉回 pending，
// 让生命周期扫描按时间窗口重新接管
func (s *ScheduleService) RestartSchedule(ctx context.Context, id int) error {
	ok, err := repo.UpdateScheduleStatus(ctx, s.db, id, domain.StatusStopped, domain.StatusPending)
	if err != nil {
		return err
	}
	if !ok {
		ok, err = repo.UpdateScheduleStatus(ctx, s.db, id, domain.StatusCompleted, domain.StatusPending)
		if err != nil {
			return err
		}
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

func (s *ScheduleService) ListLogs(ctx context.Context, scheduleID, limit int) ([]domain.ScheduleLog, error) {
	return repo.ListScheduleLogs(ctx, s.db, scheduleID, limit)
}
