package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	//连接测试
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            id INT PRIMARY KEY,
            name TEXT NOT NULL,
            proxy TEXT NOT NULL DEFAULT '',
            browser_type TEXT NOT NULL DEFAULT '',
            browser_version TEXT NOT NULL DEFAULT '',
            group_id INT NOT NULL DEFAULT 0,
            note TEXT NOT NULL DEFAULT '',
            last_synced TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS scripts (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            parameters JSONB NOT NULL DEFAULT '[]',
            last_synced TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS schedules (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            script_id TEXT NOT NULL REFERENCES scripts(id) ON DELETE CASCADE,
            start_time TIMESTAMPTZ NOT NULL,
            end_time TIMESTAMPTZ NOT NULL,
            profile_delay INT NOT NULL DEFAULT 300,
            loop_delay INT NOT NULL DEFAULT 600,
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending','running','completed','stopped')),
            created_by INT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            last_run TIMESTAMPTZ,
            CHECK (end_time > start_time)
        );`,
		`CREATE TABLE IF NOT EXISTS schedule_profiles (
            schedule_id INT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
            profile_id INT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            UNIQUE (schedule_id, profile_id)
        );`,
		`CREATE TABLE IF NOT EXISTS schedule_logs (
            id SERIAL PRIMARY KEY,
            schedule_id INT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
            profile_id INT NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('success','failed')),
            message TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_status ON schedules(status);`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_logs_schedule ON schedule_logs(schedule_id, created_at DESC);`,
	}
	for _, q := range ddl {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
