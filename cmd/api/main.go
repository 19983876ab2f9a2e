package main

import (
	"context"
	"log"
	"time"

	"GemScheduler/internal/config"
	"GemScheduler/internal/db"
	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/http/handler"
	"GemScheduler/internal/metrics"
	"GemScheduler/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 初始化 Postgres
	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres init failed: %v", err)
	}
	defer pool.Close()

	// 确保表结构存在
	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}

	// 初始化 Redis
	rdb, err := metrics.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	defer rdb.Close()

	// GemLogin 客户端
	api := gemlogin.NewClient(cfg.GemLoginURL, cfg.ClientTimeout)

	// 组装服务与路由
	scheduleSvc := service.NewScheduleService(pool)
	syncSvc := service.NewSyncService(pool, api, cfg.SyncBatchLimit)

	healthH := handler.NewHealthHandler(pool, rdb, api)
	scheduleH := handler.NewScheduleHandler(scheduleSvc)
	profileH := handler.NewProfileHandler(pool, api)
	scriptH := handler.NewScriptHandler(pool, api)
	syncH := handler.NewSyncHandler(syncSvc)
	metricsH := handler.NewMetricsHandler(metrics.NewRecorder(rdb))

	engine := gin.Default()

	// 健康与就绪
	engine.GET("/healthz", healthH.Healthz)
	engine.GET("/readyz", healthH.Readyz)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/schedules", scheduleH.CreateSchedule)
		v1.GET("/schedules", scheduleH.ListSchedules)
		v1.GET("/schedules/:id", scheduleH.GetSchedule)
		v1.PUT("/schedules/:id", scheduleH.UpdateSchedule)
		v1.DELETE("/schedules/:id", scheduleH.DeleteSchedule)
		v1.POST("/schedules/:id/stop", scheduleH.StopSchedule)
		v1.POST("/schedules/:id/restart", scheduleH.RestartSchedule)
		v1.GET("/schedules/:id/logs", scheduleH.ListLogs)

		v1.GET("/profiles", profileH.ListProfiles)
		v1.POST("/profiles/:id/start", profileH.StartProfile)
		v1.POST("/profiles/:id/close", profileH.CloseProfile)
		v1.POST("/fingerprint", profileH.ChangeFingerprint)

		v1.GET("/scripts", scriptH.ListScripts)
		v1.POST("/scripts/:id/execute", scriptH.ExecuteScript)
		v1.POST("/scripts/:id/status", scriptH.CheckScriptStatus)
		v1.POST("/scripts/:id/kill", scriptH.KillScript)

		v1.POST("/sync/profiles", syncH.SyncProfiles)
		v1.POST("/sync/scripts", syncH.SyncScripts)

		v1.GET("/metrics/poller", metricsH.GetPollerMetrics)
	}

	log.Printf("starting api server on :%s", cfg.HTTPPort)
	if err := engine.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
