package repo

import (
	"context"

	"GemScheduler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertProfiles 镜像同步：整批档案在一个事务里 upsert，
// 任何一条失败整批回滚，不会出现半同步状态
func UpsertProfiles(ctx context.Context, db *pgxpool.Pool, profiles []domain.Profile) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range profiles {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (id, name, proxy, browser_type, browser_version, group_id, note, last_synced)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				proxy = EXCLUDED.proxy,
				browser_type = EXCLUDED.browser_type,
				browser_version = EXCLUDED.browser_version,
				group_id = EXCLUDED.group_id,
				note = EXCLUDED.note,
				last_synced = NOW()
		`, p.ID, p.Name, p.Proxy, p.BrowserType, p.BrowserVersion, p.GroupID, p.Note)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListProfiles 按 ID 升序列出镜像里的全部档案
func ListProfiles(ctx context.Context, db *pgxpool.Pool) ([]domain.Profile, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, proxy, browser_type, browser_version, group_id, note, last_synced
		FROM profiles
		ORDER BY id
	`)
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
