package scheduler

import (
	"context"
	"time"

	"GemScheduler/internal/domain"
	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AutomationAPI 调度器对 GemLogin 客户端的最小依赖面
type AutomationAPI interface {
	ExecuteScript(ctx context.Context, scriptID string, profileIDs []int, parameters map[string]any, closeBrowser bool) gemlogin.Result
}

// Store 调度器对持久层的最小依赖面，全部操作由 repo 包的事务语义兜底
type Store interface {
	StartDueSchedules(ctx context.Context, now time.Time) (int64, error)
	CompleteDueSchedules(ctx context.Context, now time.Time) (int64, error)
	ListRunningSchedules(ctx context.Context) ([]domain.Schedule, error)
	ListScheduleProfiles(ctx context.Context, scheduleID int) ([]domain.Profile, error)
	GetScriptDefaultParameters(ctx context.Context, scriptID string) (map[string]any, error)
	UpdateScheduleLastRun(ctx context.Context, id int, t time.Time) error
	InsertScheduleLog(ctx context.Context, scheduleID, profileID int, status, message string) error
}

// PgxStore Store 的 Postgres 实现，直接转发给 repo
type PgxStore struct {
	db *pgxpool.Pool
}

func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

func (s *PgxStore) StartDueSchedules(ctx context.Context, now time.Time) (int64, error) {
	return repo.StartDueSchedules(ctx, s.db, now)
}

func (s *PgxStore) CompleteDueSchedules(ctx context.Context, now time.Time) (int64, error) {
	return repo.CompleteDueSchedules(ctx, s.db, now)
}

func (s *PgxStore) ListRunningSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return repo.ListRunningSchedules(ctx, s.db)
}

func (s *PgxStore) ListScheduleProfiles(ctx context.Context, scheduleID int) ([]domain.Profile, error) {
	return repo.ListScheduleProfiles(ctx, s.db, scheduleID)
}

func (s *PgxStore) GetScriptDefaultParameters(ctx context.Context, scriptID string) (map[string]any, error) {
	return repo.GetScriptDefaultParameters(ctx, s.db, scriptID)
}

func (s *PgxStore) UpdateScheduleLastRun(ctx context.Context, id int, t time.Time) error {
	return repo.UpdateScheduleLastRun(ctx, s.db, id, t)
}

func (s *PgxStore) InsertScheduleLog(ctx context.Context, scheduleID, profileID int, status, message string) error {
	return repo.InsertScheduleLog(ctx, s.db, scheduleID, profileID, status, message)
}
