package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"study_planner_backend/internal/model"
	"study_planner_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ActionUrgentExamPrep     = "urgent_exam_prep"
	ActionCatchUp            = "catch_up"
	ActionExamPreparation    = "exam_preparation"
	ActionContinueRoutine    = "continue_routine"
	ActionImproveConsistency = "improve_consistency"
)

// patternWindowDays 学习规律分析的回看窗口
const patternWindowDays = 14

const recommendationCacheTTL = 10 * time.Minute

// NextAction 当前最值得做的一件事
type NextAction struct {
	Action      string `json:"action"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// PrioritySubject 需要优先投入的科目及原因
type PrioritySubject struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	Reason      string `json:"reason"`
	Urgency     string `json:"urgency"`
}

type CatchUpDay struct {
	Day        int     `json:"day"`
	Date       string  `json:"date"`
	Tasks      int     `json:"tasks"`
	TotalHours float64 `json:"total_hours"`
}

// CatchUpPlan 把逾期任务摊到接下来几天的补课安排
type CatchUpPlan struct {
	TotalMissed         int          `json:"total_missed"`
	SubjectsAffected    int          `json:"subjects_affected"`
	RecommendedSchedule []CatchUpDay `json:"recommended_schedule"`
}

type Motivation struct {
	Level   string  `json:"level"`
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

type StudyTip struct {
	Category string `json:"category"`
	Tip      string `json:"tip"`
}

// WeakSubject 完成率低于60%的科目
type WeakSubject struct {
	SubjectID      uint    `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	CompletionRate float64 `json:"completion_rate"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
}

type Recommendation struct {
	NextAction       NextAction        `json:"next_action"`
	PrioritySubjects []PrioritySubject `json:"priority_subjects"`
	StudyTips        []StudyTip        `json:"study_tips"`
	CatchUpPlan      *CatchUpPlan      `json:"catch_up_plan"`
	Motivation       Motivation        `json:"motivation_level"`
	GeneratedAt      string            `json:"generated_at"`
}

type RecommendationService struct {
	SessionRepo SessionStore
	ExamRepo    ExamReader
	Redis       *redis.Client

	LookaheadDays int
}

func NewRecommendationService(sessionRepo SessionStore, examRepo ExamReader, rdb *redis.Client, lookaheadDays int) *RecommendationService {
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &RecommendationService{
		SessionRepo:   sessionRepo,
		ExamRepo:      examRepo,
		Redis:         rdb,
		LookaheadDays: lookaheadDays,
	}
}

// DetermineNextAction 决策顺序固定，命中即返回：
// 1天内的考试 > 3个以上逾期任务 > 一周内的考试 > 状态良好 > 改善连贯性
func DetermineNextAction(patterns StudyPatterns, upcomingExams []*model.Exam, missedCount int, asOf time.Time) NextAction {
	for _, exam := range upcomingExams {
		if model.DaysBetween(asOf, exam.ExamDate) <= 1 {
			return NextAction{
				Action:      ActionUrgentExamPrep,
				Title:       "Urgent: Prepare for " + exam.ExamName,
				Description: fmt.Sprintf("Exam is on %s. Focus all efforts here!", exam.ExamDate.Format("2006-01-02")),
				Priority:    "critical",
			}
		}
	}

	if missedCount > 3 {
		return NextAction{
			Action:      ActionCatchUp,
			Title:       fmt.Sprintf("Catch up on %d missed tasks", missedCount),
			Description: "You're falling behind. Let's get back on track!",
			Priority:    "high",
		}
	}

	if len(upcomingExams) > 0 {
		exam := upcomingExams[0]
		daysUntil := model.DaysBetween(asOf, exam.ExamDate)
		return NextAction{
			Action:      ActionExamPreparation,
			Title:       "Prepare for " + exam.ExamName,
			Description: fmt.Sprintf("Exam in %d days. Start reviewing now.", daysUntil),
			Priority:    "medium",
		}
	}

	if patterns.CompletionRate >= 70 {
		return NextAction{
			Action:      ActionContinueRoutine,
			Title:       "Keep up the great work!",
			Description: fmt.Sprintf("You're doing well with %.1f%% completion rate.", patterns.CompletionRate),
			Priority:    "low",
		}
	}

	return NextAction{
		Action:      ActionImproveConsistency,
		Title:       "Improve your study consistency",
		Description: "Try to complete at least one task daily.",
		Priority:    "medium",
	}
}

// PrioritizeSubjects 最多3个临近考试的科目，再补最多2个弱势科目
func PrioritizeSubjects(weakSubjects []WeakSubject, upcomingExams []*model.Exam, asOf time.Time) []PrioritySubject {
	var priorities []PrioritySubject

	examCount := len(upcomingExams)
	if examCount > 3 {
		examCount = 3
	}
	for _, exam := range upcomingExams[:examCount] {
		daysUntil := model.DaysBetween(asOf, exam.ExamDate)
		urgency := "medium"
		if daysUntil <= 3 {
			urgency = "high"
		}
		name := ""
		if exam.Subject != nil {
			name = exam.Subject.Name
		}
		priorities = append(priorities, PrioritySubject{
			SubjectID:   exam.SubjectID,
			SubjectName: name,
			Reason:      fmt.Sprintf("Exam in %d days", daysUntil),
			Urgency:     urgency,
		})
	}

	weakCount := len(weakSubjects)
	if weakCount > 2 {
		weakCount = 2
	}
	for _, subject := range weakSubjects[:weakCount] {
		priorities = append(priorities, PrioritySubject{
			SubjectID:   subject.SubjectID,
			SubjectName: subject.SubjectName,
			Reason:      fmt.Sprintf("Low completion rate (%.1f%%)", subject.CompletionRate),
			Urgency:     "medium",
		})
	}

	return priorities
}

// IdentifyWeakSubjects 按科目统计完成率，低于60%的按完成率升序返回
func IdentifyWeakSubjects(sessions []*model.StudySession) []WeakSubject {
	type stats struct {
		name      string
		completed int
		total     int
	}
	bySubject := make(map[uint]*stats)
	for _, session := range sessions {
		st, ok := bySubject[session.SubjectID]
		if !ok {
			st = &stats{name: session.SubjectName}
			bySubject[session.SubjectID] = st
		}
		st.total++
		if session.IsCompleted {
			st.completed++
		}
	}

	var weak []WeakSubject
	for subjectID, st := range bySubject {
		if st.total == 0 {
			continue
		}
		rate := roundRate(float64(st.completed) / float64(st.total) * 100)
		if rate < 60 {
			weak = append(weak, WeakSubject{
				SubjectID:      subjectID,
				SubjectName:    st.name,
				CompletionRate: rate,
				Completed:      st.completed,
				Total:          st.total,
			})
		}
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].CompletionRate != weak[j].CompletionRate {
			return weak[i].CompletionRate < weak[j].CompletionRate
		}
		return weak[i].SubjectID < weak[j].SubjectID
	})
	return weak
}

// BuildCatchUpPlan 逾期任务从最旧的开始摊到 min(maxDays, 数量) 天，
// 每天 n/d 个，最后一天吸收余数。没有逾期任务时返回 nil。
func BuildCatchUpPlan(missed []*model.StudySession, maxDays int, asOf time.Time) *CatchUpPlan {
	if len(missed) == 0 {
		return nil
	}
	if maxDays <= 0 {
		maxDays = 3
	}

	sorted := make([]*model.StudySession, len(missed))
	copy(sorted, missed)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StudyDate.Equal(sorted[j].StudyDate) {
			return sorted[i].StudyDate.Before(sorted[j].StudyDate)
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	subjects := make(map[uint]bool)
	for _, session := range sorted {
		subjects[session.SubjectID] = true
	}

	days := maxDays
	if len(sorted) < days {
		days = len(sorted)
	}
	perDay := len(sorted) / days

	plan := &CatchUpPlan{
		TotalMissed:      len(sorted),
		SubjectsAffected: len(subjects),
	}

	for day := 0; day < days; day++ {
		start := day * perDay
		end := start + perDay
		if day == days-1 {
			end = len(sorted)
		}
		dayTasks := sorted[start:end]

		var hours float64
		for _, task := range dayTasks {
			hours += task.PlannedHours
		}

		plan.RecommendedSchedule = append(plan.RecommendedSchedule, CatchUpDay{
			Day:        day + 1,
			Date:       model.DateOnly(asOf).AddDate(0, 0, day).Format("2006-01-02"),
			Tasks:      len(dayTasks),
			TotalHours: hours,
		})
	}

	return plan
}

// CalculateMotivation 完成率和一致性各占40分，近期活跃度最多20分
func CalculateMotivation(patterns StudyPatterns) Motivation {
	score := patterns.CompletionRate*0.4 + patterns.ConsistencyScore*0.4
	if patterns.StudyDays >= 5 {
		score += 20
	} else if patterns.StudyDays >= 3 {
		score += 10
	}

	switch {
	case score >= 80:
		return Motivation{Level: "high", Score: score, Message: "You're on fire!"}
	case score >= 60:
		return Motivation{Level: "good", Score: score, Message: "Keep it up!"}
	case score >= 40:
		return Motivation{Level: "moderate", Score: score, Message: "You can do better!"}
	default:
		return Motivation{Level: "low", Score: score, Message: "Let's get started!"}
	}
}

// GenerateStudyTips 按学习规律给出针对性建议
func GenerateStudyTips(patterns StudyPatterns) []StudyTip {
	var tips []StudyTip

	if patterns.CompletionRate < 50 {
		tips = append(tips, StudyTip{
			Category: "consistency",
			Tip:      "Start with just 30 minutes daily. Small consistent efforts beat occasional marathons.",
		})
	}
	if patterns.ConsistencyScore < 50 {
		tips = append(tips, StudyTip{
			Category: "habit",
			Tip:      "Study at the same time each day to build a strong habit.",
		})
	}
	if patterns.AverageDailyHours < 2 {
		tips = append(tips, StudyTip{
			Category: "time_management",
			Tip:      "Try the Pomodoro Technique: 25 minutes focused study, 5 minutes break.",
		})
	}

	tips = append(tips, StudyTip{
		Category: "technique",
		Tip:      "Active recall is more effective than re-reading. Test yourself regularly.",
	})

	return tips
}

// BuildRecommendation 纯计算：由学习规律、临近考试和逾期任务组装完整推荐
func BuildRecommendation(patterns StudyPatterns, upcomingExams []*model.Exam, missed []*model.StudySession, weakSubjects []WeakSubject, catchUpMaxDays int, asOf time.Time) Recommendation {
	return Recommendation{
		NextAction:       DetermineNextAction(patterns, upcomingExams, len(missed), asOf),
		PrioritySubjects: PrioritizeSubjects(weakSubjects, upcomingExams, asOf),
		StudyTips:        GenerateStudyTips(patterns),
		CatchUpPlan:      BuildCatchUpPlan(missed, catchUpMaxDays, asOf),
		Motivation:       CalculateMotivation(patterns),
		GeneratedAt:      time.Now().Format(time.RFC3339),
	}
}

// Recommend 汇集用户数据生成推荐，结果短暂缓存在 Redis
func (s *RecommendationService) Recommend(ctx context.Context, userID uint, asOf time.Time) (*Recommendation, error) {
	cacheKey := fmt.Sprintf("recommendation:%d:%s", userID, model.DateOnly(asOf).Format("2006-01-02"))

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var rec Recommendation
			if err := json.Unmarshal([]byte(cached), &rec); err == nil {
				return &rec, nil
			}
		}
	}

	windowStart := model.DateOnly(asOf).AddDate(0, 0, -patternWindowDays)
	windowSessions, err := s.SessionRepo.FindByUserAndRange(userID, windowStart, asOf)
	if err != nil {
		return nil, err
	}
	patterns := AnalyzePatterns(windowSessions, patternWindowDays, asOf)

	upcomingExams, err := s.ExamRepo.FindUpcoming(userID, asOf, model.DateOnly(asOf).AddDate(0, 0, s.LookaheadDays))
	if err != nil {
		return nil, err
	}

	missed, err := s.SessionRepo.FindOverdue(userID, asOf)
	if err != nil {
		return nil, err
	}

	weakSubjects := IdentifyWeakSubjects(windowSessions)

	rec := BuildRecommendation(patterns, upcomingExams, missed, weakSubjects, 3, asOf)

	if s.Redis != nil {
		if payload, err := json.Marshal(rec); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, recommendationCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache recommendation", zap.Error(err))
			}
		}
	}

	return &rec, nil
}

// InvalidateCache 完成状态变更后让当日推荐失效
func (s *RecommendationService) InvalidateCache(ctx context.Context, userID uint, asOf time.Time) {
	if s.Redis == nil {
		return
	}
	cacheKey := fmt.Sprintf("recommendation:%d:%s", userID, model.DateOnly(asOf).Format("2006-01-02"))
	if err := s.Redis.Del(ctx, cacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate recommendation cache", zap.Error(err))
	}
}
