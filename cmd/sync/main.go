package main

import (
	"context"
	"flag"
	"log"
	"time"

	"GemScheduler/internal/config"
	"GemScheduler/internal/db"
	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/service"
)

// 一次性镜像同步：把 GemLogin 的档案/脚本拉进本地库。
// 默认两样都同步，可用 -profiles / -scripts 单独跑。
func main() {
	profilesOnly := flag.Bool("profiles", false, "sync profiles only")
	scriptsOnly := flag.Bool("scripts", false, "sync scripts only")
	flag.Parse()

	syncProfiles := !*scriptsOnly
	syncScripts := !*profilesOnly

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres failed: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}

	api := gemlogin.NewClient(cfg.GemLoginURL, cfg.ClientTimeout)
	if res := api.Ping(ctx); !res.Success {
		log.Fatalf("gemlogin unreachable: %s", res.Message)
	}

	svc := service.NewSyncService(pool, api, cfg.SyncBatchLimit)

	// 脚本先同步：schedules 有指向 scripts 的外键，档案关联也依赖 profiles 先有行
	if syncScripts {
		n, err := svc.SyncScripts(ctx)
		if err != nil {
			log.Fatalf("sync scripts failed: %v", err)
		}
		log.Printf("synced %d script(s)", n)
	}
	if syncProfiles {
		n, err := svc.SyncProfiles(ctx)
		if err != nil {
			log.Fatalf("sync profiles failed: %v", err)
		}
		log.Printf("synced %d profile(s)", n)
	}
}
