package service

import (
	"fmt"
	"math"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// 进度状态档位，下界均为闭区间
const (
	StatusNoTasks          = "no_tasks"
	StatusExcellent        = "excellent"
	StatusGood             = "good"
	StatusNeedsImprovement = "needs_improvement"
	StatusCritical         = "critical"
)

// ProgressReport 一个时间窗口内的完成情况汇总
type ProgressReport struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	MissedTasks    int     `json:"missed_tasks"`
	Status         string  `json:"status"`
	Period         string  `json:"period"`
}

// StudyPatterns 推荐引擎消费的学习规律指标
type StudyPatterns struct {
	TotalTasks        int     `json:"total_tasks"`
	Completed         int     `json:"completed"`
	CompletionRate    float64 `json:"completion_rate"`
	ConsistencyScore  float64 `json:"consistency_score"`
	AverageDailyHours float64 `json:"average_daily_hours"`
	StudyDays         int     `json:"study_days"`
}

type ProgressService struct {
	SessionRepo SessionStore
}

func NewProgressService(sessionRepo SessionStore) *ProgressService {
	return &ProgressService{SessionRepo: sessionRepo}
}

func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}

func statusFor(completionRate float64) string {
	switch {
	case completionRate >= 80:
		return StatusExcellent
	case completionRate >= 60:
		return StatusGood
	case completionRate >= 40:
		return StatusNeedsImprovement
	default:
		return StatusCritical
	}
}

// Analyze 纯计算：过滤到 [asOf-windowDays, asOf] 窗口并汇总完成情况
func Analyze(sessions []*model.StudySession, windowDays int, asOf time.Time) ProgressReport {
	windowStart := model.DateOnly(asOf).AddDate(0, 0, -windowDays)
	asOfDate := model.DateOnly(asOf)

	var total, completed, missed int
	for _, session := range sessions {
		d := model.DateOnly(session.StudyDate)
		if d.Before(windowStart) || d.After(asOfDate) {
			continue
		}
		total++
		if session.IsCompleted {
			completed++
		} else if d.Before(asOfDate) {
			missed++
		}
	}

	if total == 0 {
		return ProgressReport{
			Status: StatusNoTasks,
			Period: fmt.Sprintf("last_%d_days", windowDays),
		}
	}

	rate := roundRate(float64(completed) / float64(total) * 100)
	return ProgressReport{
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: rate,
		MissedTasks:    missed,
		Status:         statusFor(rate),
		Period:         fmt.Sprintf("last_%d_days", windowDays),
	}
}

// AnalyzePatterns 纯计算：一致性 = 有完成记录的天数 / 窗口天数，
// 日均时长按有完成记录的天数平均
func AnalyzePatterns(sessions []*model.StudySession, windowDays int, asOf time.Time) StudyPatterns {
	windowStart := model.DateOnly(asOf).AddDate(0, 0, -windowDays)
	asOfDate := model.DateOnly(asOf)

	var total, completed int
	var completedHours float64
	studyDays := make(map[string]bool)

	for _, session := range sessions {
		d := model.DateOnly(session.StudyDate)
		if d.Before(windowStart) || d.After(asOfDate) {
			continue
		}
		total++
		if session.IsCompleted {
			completed++
			completedHours += session.PlannedHours
			studyDays[d.Format("2006-01-02")] = true
		}
	}

	patterns := StudyPatterns{
		TotalTasks: total,
		Completed:  completed,
		StudyDays:  len(studyDays),
	}
	if total > 0 {
		patterns.CompletionRate = roundRate(float64(completed) / float64(total) * 100)
	}
	patterns.ConsistencyScore = roundRate(float64(len(studyDays)) / float64(windowDays) * 100)
	if len(studyDays) > 0 {
		patterns.AverageDailyHours = roundRate(completedHours / float64(len(studyDays)))
	}

	return patterns
}

// AnalyzeUser 读取窗口内的时段并汇总
func (s *ProgressService) AnalyzeUser(userID uint, windowDays int, asOf time.Time) (ProgressReport, error) {
	windowStart := model.DateOnly(asOf).AddDate(0, 0, -windowDays)
	sessions, err := s.SessionRepo.FindByUserAndRange(userID, windowStart, asOf)
	if err != nil {
		return ProgressReport{}, err
	}
	return Analyze(sessions, windowDays, asOf), nil
}

func (s *ProgressService) PatternsForUser(userID uint, windowDays int, asOf time.Time) (StudyPatterns, error) {
	windowStart := model.DateOnly(asOf).AddDate(0, 0, -windowDays)
	sessions, err := s.SessionRepo.FindByUserAndRange(userID, windowStart, asOf)
	if err != nil {
		return StudyPatterns{}, err
	}
	return AnalyzePatterns(sessions, windowDays, asOf), nil
}

// MarkCompleted 标记完成。不允许提前完成未来日期的任务，
// 校验失败时状态保持不变。
func (s *ProgressService) MarkCompleted(sessionID, userID uint, asOf time.Time) (*model.StudySession, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}

	if model.DateOnly(session.StudyDate).After(model.DateOnly(asOf)) {
		return nil, util.ErrFutureCompletion
	}

	if session.IsCompleted {
		return session, nil
	}

	now := time.Now()
	session.IsCompleted = true
	session.CompletedAt = &now
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}

	logger.Log.Info("session completed",
		zap.Uint("user_id", userID),
		zap.Uint("session_id", sessionID))

	return session, nil
}

// MarkIncomplete 撤销完成标记并清空完成时间
func (s *ProgressService) MarkIncomplete(sessionID, userID uint) (*model.StudySession, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}

	session.IsCompleted = false
	session.CompletedAt = nil
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}

	return session, nil
}
