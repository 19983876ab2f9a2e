package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GemScheduler/internal/config"
	"GemScheduler/internal/db"
	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/metrics"
	"GemScheduler/internal/scheduler"

	"github.com/robfig/cron/v3"
)

func main() {
	daemon := flag.Bool("daemon", false, "run on an in-process cron cadence instead of one pass per invocation")
	flag.Parse()

	// 加载配置
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 初始化 Postgres：这里连不上属于进程级故障，非零退出让外部 cron 告警
	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres failed: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}

	// Redis 只服务于指标，连不上降级成无指标运行
	rdb, err := metrics.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("redis init failed, metrics disabled: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	api := gemlogin.NewClient(cfg.GemLoginURL, cfg.ClientTimeout)
	poller := scheduler.NewPoller(scheduler.NewPgxStore(pool), api, metrics.NewRecorder(rdb))

	if !*daemon {
		// 单发模式：外部 crontab 每分钟拉起一次
		if err := poller.RunOnce(context.Background()); err != nil {
			log.Fatalf("poll failed: %v", err)
		}
		return
	}

	// daemon 模式：进程内用 cron 表达式驱动同样的单轮逻辑。
	// 轮与轮不做互斥，依赖节拍间隔大于单轮耗时的运维约束。
	c := cron.New()
	_, err = c.AddFunc(cfg.PollCron, func() {
		if err := poller.RunOnce(context.Background()); err != nil {
			log.Printf("poll failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid poll cron %q: %v", cfg.PollCron, err)
	}
	c.Start()
	log.Printf("poller daemon started, cadence=%q", cfg.PollCron)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	// 等正在跑的一轮收尾
	<-c.Stop().Done()
	log.Printf("poller daemon stopped")
}
