// 手动触发每日学习摘要脚本
//
// 摘要入队通常由部署环境的定时任务在每天早晨调用。
// 此脚本用于手动触发，例如调试下游通知服务时。
//
// 用法: go run scripts/send_digests.go

package main

import (
	"context"
	"log"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/service"
	"study_planner_backend/pkg/database"
	"study_planner_backend/pkg/logger"
	"time"
)

func main() {
	// 与主程序一致走 viper 加载，保证 snake_case 键正确解码
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis连接失败: %v", err)
	}

	sessionRepo := repository.NewStudySessionRepository(db)
	examRepo := repository.NewExamRepository(db)
	reminder := service.NewReminderService(sessionRepo, examRepo, sessionRepo, rdb, cfg.Reminder)

	userIDs, err := sessionRepo.FindUsersWithPendingSessions()
	if err != nil {
		log.Fatalf("查询用户失败: %v", err)
	}

	log.Printf("手动触发每日摘要，共 %d 个用户...", len(userIDs))
	ctx := context.Background()
	now := time.Now()
	for _, userID := range userIDs {
		if err := reminder.QueueDailyDigest(ctx, userID, now); err != nil {
			log.Printf("用户 %d 摘要入队失败: %v", userID, err)
		}
	}
	log.Println("完成！")
}
