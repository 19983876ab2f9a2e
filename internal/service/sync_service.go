package service

import (
	"context"
	"errors"
	"fmt"

	"GemScheduler/internal/domain"
	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncAPI 镜像同步需要的 GemLogin 读操作
type SyncAPI interface {
	GetProfiles(ctx context.Context, groupID *int, page, perPage, sort int, search string) gemlogin.Result
	GetScripts(ctx context.Context) gemlogin.Result
}

// SyncService 把远端的档案/脚本镜像进本地库。
// 调度器只读这些镜像，写入只发生在这里。
type SyncService struct {
	db    *pgxpool.Pool
	api   SyncAPI
	limit int // 档案单次拉取上限
}

func NewSyncService(db *pgxpool.Pool, api SyncAPI, limit int) *SyncService {
	if limit <= 0 {
		limit = 1000
	}
	return &SyncService{db: db, api: api, limit: limit}
}

// SyncProfiles 拉取档案并整批 upsert，返回同步的条数
func (s *SyncService) SyncProfiles(ctx context.Context) (int, error) {
	res := s.api.GetProfiles(ctx, nil, 1, s.limit, 0, "")
	if !res.Success {
		return 0, errors.New("failed to fetch profiles from API: " + res.Message)
	}
	remote, err := gemlogin.DecodeProfiles(res)
	if err != nil {
		return 0, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(remote))
	for _, rp := range remote {
		profiles = append(profiles, domain.Profile{
			ID:             rp.ID,
			Name:           rp.Name,
			Proxy:          rp.RawProxy,
			BrowserType:    rp.BrowserType,
			BrowserVersion: rp.BrowserVersion,
			GroupID:        rp.GroupID,
			Note:           rp.Note,
		})
	}
	if err := repo.UpsertProfiles(ctx, s.db, profiles); err != nil {
		return 0, err
	}
	return len(profiles), nil
}

// SyncScripts 拉取脚本并整批 upsert，返回同步的条数
func (s *SyncService) SyncScripts(ctx context.Context) (int, error) {
	res := s.api.GetScripts(ctx)
	if !res.Success {
		return 0, errors.New("failed to fetch scripts from API: " + res.Message)
	}
	remote, err := gemlogin.DecodeScripts(res)
	if err != nil {
		return 0, fmt.Errorf("decode scripts: %w", err)
	}

	scripts := make([]domain.Script, 0, len(remote))
	for _, rs := range remote {
		scripts = append(scripts, domain.Script{
			ID:          rs.ID,
			Name:        rs.Name,
			Description: rs.Description,
			Parameters:  rs.Parameters,
		})
	}
	if err := repo.UpsertScripts(ctx, s.db, scripts); err != nil {
		return 0, err
	}
	return len(scripts), nil
}
