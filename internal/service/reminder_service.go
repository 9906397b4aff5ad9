package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type PendingUserLister interface {
	FindUsersWithPendingSessions() ([]uint, error)
}

// ReminderMessage 投递到 Redis 队列的消息体，由下游通知服务消费
type ReminderMessage struct {
	UserID      uint   `json:"user_id"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	GeneratedAt string `json:"generated_at"`
}

var motivationalQuotes = []string{
	"The secret of getting ahead is getting started.",
	"Success is the sum of small efforts repeated day in and day out.",
	"Don't watch the clock; do what it does. Keep going.",
	"The expert in anything was once a beginner.",
}

type ReminderService struct {
	SessionRepo SessionStore
	ExamRepo    ExamReader
	UserLister  PendingUserLister
	Redis       *redis.Client

	cfg config.ReminderConfig
}

func NewReminderService(sessionRepo SessionStore, examRepo ExamReader, userLister PendingUserLister, rdb *redis.Client, cfg config.ReminderConfig) *ReminderService {
	return &ReminderService{
		SessionRepo: sessionRepo,
		ExamRepo:    examRepo,
		UserLister:  userLister,
		Redis:       rdb,
		cfg:         cfg,
	}
}

// formatHours 把小数小时格式化为 "2h 30m" 样式
func formatHours(hours float64) string {
	whole := int(hours)
	minutes := int(math.Round((hours - float64(whole)) * 60))
	if minutes == 60 {
		whole++
		minutes = 0
	}
	if minutes == 0 {
		return fmt.Sprintf("%dh", whole)
	}
	if whole == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", whole, minutes)
}

// BuildDailyDigest 纯计算：拼装今日任务和临近考试的提醒文本
func BuildDailyDigest(todaySessions []*model.StudySession, upcomingExams []*model.Exam, asOf time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Good morning! Here's your study plan for %s:\n\n", model.DateOnly(asOf).Format("2006-01-02")))

	if len(todaySessions) == 0 {
		b.WriteString("No study sessions scheduled for today. Enjoy your day off!\n")
	} else {
		b.WriteString("Today's tasks:\n")
		for _, session := range todaySessions {
			status := " "
			if session.IsCompleted {
				status = "x"
			}
			b.WriteString(fmt.Sprintf("  [%s] %s - %s (%s)\n",
				status, session.SubjectName, session.Topic, formatHours(session.PlannedHours)))
		}
	}

	if len(upcomingExams) > 0 {
		b.WriteString("\nUpcoming exams:\n")
		for _, exam := range upcomingExams {
			daysUntil := model.DaysBetween(asOf, exam.ExamDate)
			when := fmt.Sprintf("in %d days", daysUntil)
			if daysUntil == 0 {
				when = "TODAY!"
			} else if daysUntil == 1 {
				when = "tomorrow"
			}
			b.WriteString(fmt.Sprintf("  %s - %s (%s)\n",
				exam.ExamName, exam.ExamDate.Format("2006-01-02"), when))
		}
	}

	quote := motivationalQuotes[model.DateOnly(asOf).YearDay()%len(motivationalQuotes)]
	b.WriteString("\n" + quote)

	return b.String()
}

// QueueDailyDigest 为单个用户生成当日摘要并入队
func (s *ReminderService) QueueDailyDigest(ctx context.Context, userID uint, asOf time.Time) error {
	today := model.DateOnly(asOf)
	sessions, err := s.SessionRepo.FindByUserAndDate(userID, today)
	if err != nil {
		return err
	}

	exams, err := s.ExamRepo.FindUpcoming(userID, today, today.AddDate(0, 0, 7))
	if err != nil {
		return err
	}

	message := ReminderMessage{
		UserID:      userID,
		Type:        "daily_digest",
		Message:     BuildDailyDigest(sessions, exams, asOf),
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
	return s.enqueue(ctx, message)
}

// SweepLowProgress 巡检所有有未完成任务的用户，
// 近7天完成率低于60%的用户收到一条督促提醒
func (s *ReminderService) SweepLowProgress(ctx context.Context, asOf time.Time) {
	if !s.cfg.Enabled {
		return
	}

	userIDs, err := s.UserLister.FindUsersWithPendingSessions()
	if err != nil {
		logger.Log.Error("reminder sweep failed to list users", zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		windowStart := model.DateOnly(asOf).AddDate(0, 0, -7)
		sessions, err := s.SessionRepo.FindByUserAndRange(userID, windowStart, asOf)
		if err != nil {
			logger.Log.Warn("reminder sweep skipped user",
				zap.Uint("user_id", userID), zap.Error(err))
			continue
		}

		report := Analyze(sessions, 7, asOf)
		if report.Status == StatusNoTasks || report.CompletionRate >= 60 {
			continue
		}

		message := ReminderMessage{
			UserID: userID,
			Type:   "low_progress",
			Message: fmt.Sprintf("Your completion rate over the last 7 days is %.1f%%. "+
				"You have %d missed tasks. A short catch-up session today can turn this around!",
				report.CompletionRate, report.MissedTasks),
			GeneratedAt: time.Now().Format(time.RFC3339),
		}
		if err := s.enqueue(ctx, message); err != nil {
			logger.Log.Warn("failed to queue low progress reminder",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}
}

func (s *ReminderService) enqueue(ctx context.Context, message ReminderMessage) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if err := s.Redis.LPush(ctx, s.cfg.QueueKey, payload).Err(); err != nil {
		return err
	}
	monitoring.RemindersQueued.Inc()
	return nil
}
