package repo

import (
	"context"

	"GemScheduler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertScheduleLog 追加一条执行记录，message 原样保存远端返回的文本
func InsertScheduleLog(ctx context.Context, db *pgxpool.Pool, scheduleID, profileID int, status, message string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO schedule_logs (schedule_id, profile_id, status, message)
		VALUES ($1, $2, $3, $4)
	`, scheduleID, profileID, status, message)
	return err
}

// ListScheduleLogs 按时间倒序取某个调度最近的执行记录
func ListScheduleLogs(ctx context.Context, db *pgxpool.Pool, scheduleID, limit int) ([]domain.ScheduleLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT id, schedule_id, profile_id, status, message, created_at
		FROM schedule_logs
		WHERE schedule_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, scheduleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.ScheduleLog
	for rows.Next() {
		var l domain.ScheduleLog
		if err := rows.Scan(&l.ID, &l.ScheduleID, &l.ProfileID, &l.Status, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}
