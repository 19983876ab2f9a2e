package repo

import (
	"context"
	"encoding/json"

	"GemScheduler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertScripts 镜像同步：整批脚本在一个事务里 upsert，参数元数据存成 JSONB
func UpsertScripts(ctx context.Context, db *pgxpool.Pool, scripts []domain.Script) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range scripts {
		params, err := json.Marshal(s.Parameters)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO scripts (id, name, description, parameters, last_synced)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				parameters = EXCLUDED.parameters,
				last_synced = NOW()
		`, s.ID, s.Name, s.Description, params)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListScripts 列出镜像里的全部脚本
func ListScripts(ctx context.Context, db *pgxpool.Pool) ([]domain.Script, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, description, parameters, last_synced
		FROM scripts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Script
	for rows.Next() {
		s, err := scanScript(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *s)
	}
	return res, rows.Err()
}

// GetScriptByID 根据 ID 查询脚本
func GetScriptByID(ctx context.Context, db *pgxpool.Pool, id string) (*domain.Script, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, description, parameters, last_synced
		FROM scripts
		WHERE id = $1
	`, id)
	return scanScript(row.Scan)
}

func scanScript(scan func(dest ...any) error) (*domain.Script, error) {
	var s domain.Script
	var params []byte
	if err := scan(&s.ID, &s.Name, &s.Description, &params, &s.LastSynced); err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &s.Parameters); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// GetScriptDefaultParameters 取脚本参数元数据的默认值映射，调度一轮只解析一次
func GetScriptDefaultParameters(ctx context.Context, db *pgxpool.Pool, id string) (map[string]any, error) {
	s, err := GetScriptByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return domain.DefaultParameters(s.Parameters), nil
}
