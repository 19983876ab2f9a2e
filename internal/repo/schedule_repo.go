package repo

import (
	"context"
	"time"

	"GemScheduler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const scheduleColumns = `id, name, script_id, start_time, end_time, profile_delay, loop_delay, status, created_by, created_at, last_run`

func scanSchedule(scan func(dest ...any) error) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := scan(
		&s.ID, &s.Name, &s.ScriptID, &s.StartTime, &s.EndTime,
		&s.ProfileDelay, &s.LoopDelay, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.LastRun,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSchedule 建调度并写入档案关联，同一个事务，失败整体回滚
func CreateSchedule(ctx context.Context, db *pgxpool.Pool, s *domain.Schedule, profileIDs []int) (int, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO schedules (name, script_id, start_time, end_time, profile_delay, loop_delay, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, s.Name, s.ScriptID, s.StartTime, s.EndTime, s.ProfileDelay, s.LoopDelay, domain.StatusPending, s.CreatedBy).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, pid := range profileIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_profiles (schedule_id, profile_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, pid); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateSchedule 更新调度字段并整组替换档案关联，同一个事务
func UpdateSchedule(ctx context.Context, db *pgxpool.Pool, s *domain.Schedule, profileIDs []int) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE schedules
		SET name = $1, script_id = $2, start_time = $3, end_time = $4, profile_delay = $5, loop_delay = $6
		WHERE id = $7
	`, s.Name, s.ScriptID, s.StartTime, s.EndTime, s.ProfileDelay, s.LoopDelay, s.ID)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schedule_profiles WHERE schedule_id = $1`, s.ID); err != nil {
		return err
	}
	for _, pid := range profileIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_profiles (schedule_id, profile_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, s.ID, pid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// DeleteSchedule 删除调度，关联与日志靠外键级联清掉
func DeleteSchedule(ctx context.Context, db *pgxpool.Pool, id int) error {
	_, err := db.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	return err
}

// GetScheduleByID 根据 ID 查询调度
func GetScheduleByID(ctx context.Context, db *pgxpool.Pool, id int) (*domain.Schedule, error) {
	row := db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id)
	return scanSchedule(row.Scan)
}

// ListSchedules 按状态过滤列出调度（status 为空串表示不过滤）
func ListSchedules(ctx context.Context, db *pgxpool.Pool, status string) ([]domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *s)
	}
	return res, rows.Err()
}

// ListRunningSchedules 调度器每轮要扫的 running 集合
func ListRunningSchedules(ctx context.Context, db *pgxpool.Pool) ([]domain.Schedule, error) {
	return ListSchedules(ctx, db, domain.StatusRunning)
}

// StartDueSchedules pending -> running 的批量推进。
// WHERE status='pending' 保证对已推进的行重复执行是空操作。
func StartDueSchedules(ctx context.Context, db *pgxpool.Pool, now time.Time) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE schedules SET status = $1
		WHERE status = $2 AND start_time <= $3
	`, domain.StatusRunning, domain.StatusPending, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteDueSchedules running -> completed 的批量推进。
// 手动 stopped 的行不在 WHERE 范围内，永远不会被自动收尾。
func CompleteDueSchedules(ctx context.Context, db *pgxpool.Pool, now time.Time) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE schedules SET status = $1
		WHERE status = $2 AND end_time <= $3
	`, domain.StatusCompleted, domain.StatusRunning, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateScheduleStatus 把调度从 from 状态改成 to 状态（操作员的 stop/restart），
// 返回是否真的改到了行
func UpdateScheduleStatus(ctx context.Context, db *pgxpool.Pool, id int, from, to string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE schedules SET status = $1
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateScheduleLastRun 记录本轮发车时间
func UpdateScheduleLastRun(ctx context.Context, db *pgxpool.Pool, id int, t time.Time) error {
	_, err := db.Exec(ctx, `UPDATE schedules SET last_run = $1 WHERE id = $2`, t, id)
	return err
}

// ListScheduleProfiles 取调度的档案成员，顺序固定按 profile_id 升序，
// 同一份数据每轮的执行顺序因此是确定的
func ListScheduleProfiles(ctx context.Context, db *pgxpool.Pool, scheduleID int) ([]domain.Profile, error) {
	rows, err := db.Query(ctx, `
		SELECT p.id, p.name, p.proxy, p.browser_type, p.browser_version, p.group_id, p.note, p.last_synced
		FROM profiles p
		JOIN schedule_profiles sp ON p.id = sp.profile_id
		WHERE sp.schedule_id = $1
		ORDER BY p.id
	`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Proxy, &p.BrowserType, &p.BrowserVersion, &p.GroupID, &p.Note, &p.LastSynced,
		); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
