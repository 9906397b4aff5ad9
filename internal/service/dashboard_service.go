package service

import (
	"study_planner_backend/internal/model"
	"time"
)

// DashboardStats 首页概览数据
type DashboardStats struct {
	TotalSubjects  int64   `json:"total_subjects"`
	UpcomingExams  int     `json:"upcoming_exams"`
	TodayTasks     int     `json:"today_tasks"`
	TodayCompleted int     `json:"today_completed"`
	TodayHours     float64 `json:"today_hours"`
	CompletionRate float64 `json:"completion_rate"`
	Status         string  `json:"status"`
}

// TodayTask 今日任务列表项，can_complete 标记当前是否允许打卡
type TodayTask struct {
	*model.StudySession
	CanComplete bool `json:"can_complete"`
}

type DashboardService struct {
	SubjectRepo SubjectReader
	ExamRepo    ExamReader
	SessionRepo SessionStore

	LookaheadDays int
}

func NewDashboardService(subjectRepo SubjectReader, examRepo ExamReader, sessionRepo SessionStore, lookaheadDays int) *DashboardService {
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &DashboardService{
		SubjectRepo:   subjectRepo,
		ExamRepo:      examRepo,
		SessionRepo:   sessionRepo,
		LookaheadDays: lookaheadDays,
	}
}

// Stats 汇总科目数、临近考试数、今日任务和一周完成率
func (s *DashboardService) Stats(userID uint, asOf time.Time) (*DashboardStats, error) {
	subjectCount, err := s.SubjectRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	today := model.DateOnly(asOf)
	upcoming, err := s.ExamRepo.FindUpcoming(userID, today, today.AddDate(0, 0, s.LookaheadDays))
	if err != nil {
		return nil, err
	}

	todaySessions, err := s.SessionRepo.FindByUserAndDate(userID, today)
	if err != nil {
		return nil, err
	}

	var todayCompleted int
	var todayHours float64
	for _, session := range todaySessions {
		todayHours += session.PlannedHours
		if session.IsCompleted {
			todayCompleted++
		}
	}

	weekSessions, err := s.SessionRepo.FindByUserAndRange(userID, today.AddDate(0, 0, -7), today)
	if err != nil {
		return nil, err
	}
	report := Analyze(weekSessions, 7, asOf)

	return &DashboardStats{
		TotalSubjects:  subjectCount,
		UpcomingExams:  len(upcoming),
		TodayTasks:     len(todaySessions),
		TodayCompleted: todayCompleted,
		TodayHours:     todayHours,
		CompletionRate: report.CompletionRate,
		Status:         report.Status,
	}, nil
}

// TodayTasks 今日任务列表，未来日期的任务不允许提前打卡
func (s *DashboardService) TodayTasks(userID uint, asOf time.Time) ([]TodayTask, error) {
	sessions, err := s.SessionRepo.FindByUserAndDate(userID, model.DateOnly(asOf))
	if err != nil {
		return nil, err
	}

	tasks := make([]TodayTask, 0, len(sessions))
	for _, session := range sessions {
		tasks = append(tasks, TodayTask{
			StudySession: session,
			CanComplete:  !model.DateOnly(session.StudyDate).After(model.DateOnly(asOf)),
		})
	}
	return tasks, nil
}
