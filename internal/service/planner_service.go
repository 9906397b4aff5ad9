package service

import (
	"math"
	"sort"
	"strconv"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// fallbackUrgency 没有任何考试的科目仍要获得最低覆盖，
	// 取值低于任何考试推导出的分数（最低为 2*0.7=1.4）
	fallbackUrgency = 1.0
	// noExamDays 无考试科目的占位天数
	noExamDays = 999
)

type SubjectReader interface {
	FindByUserID(userID uint) ([]*model.Subject, error)
	CountByUserID(userID uint) (int64, error)
}

type ExamReader interface {
	FindByUserID(userID uint) ([]*model.Exam, error)
	FindUpcoming(userID uint, from, to time.Time) ([]*model.Exam, error)
}

type SessionStore interface {
	FindByID(id uint) (*model.StudySession, error)
	FindByUserAndRange(userID uint, start, end time.Time) ([]*model.StudySession, error)
	FindByUserAndDate(userID uint, date time.Time) ([]*model.StudySession, error)
	FindOverdue(userID uint, asOf time.Time) ([]*model.StudySession, error)
	ReplaceRange(userID uint, start, end time.Time, preserveCompleted bool, sessions []*model.StudySession) error
	Update(session *model.StudySession) error
}

type PreferenceReader interface {
	GetPreference(userID uint) (*model.PlannerPreference, error)
}

// SubjectPriority 某一评估日上单个科目的紧迫度
type SubjectPriority struct {
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Urgency     float64 `json:"urgency"`
	Priority    int     `json:"priority"`
	DaysUntil   int     `json:"days_until_exam"`
	ExamName    string  `json:"exam_name,omitempty"`
}

// Allocation 单日内分给一个科目的时长
type Allocation struct {
	SubjectPriority
	Hours       float64 `json:"hours"`
	Topic       string  `json:"topic"`
	Description string  `json:"description"`
}

// PlanRequest 一次计划生成的全部输入，评估时钟始终显式传入
type PlanRequest struct {
	UserID       uint
	DailyHours   float64
	StartDate    time.Time
	EndDate      time.Time
	SkipWeekends bool
	MinHours     float64
}

type PlannerService struct {
	SubjectRepo SubjectReader
	ExamRepo    ExamReader
	SessionRepo SessionStore
	UserRepo    PreferenceReader

	mu  sync.RWMutex
	cfg config.PlannerConfig
}

func NewPlannerService(subjectRepo SubjectReader, examRepo ExamReader, sessionRepo SessionStore, userRepo PreferenceReader, cfg config.PlannerConfig) *PlannerService {
	return &PlannerService{
		SubjectRepo: subjectRepo,
		ExamRepo:    examRepo,
		SessionRepo: sessionRepo,
		UserRepo:    userRepo,
		cfg:         cfg,
	}
}

// ApplyConfig 配置热更新回调
func (s *PlannerService) ApplyConfig(cfg config.PlannerConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *PlannerService) Config() config.PlannerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// scoreExam 将考试日期和重要程度映射为紧迫度分数。
// 已过期的考试不再贡献分数。
func scoreExam(examDate time.Time, importance model.ImportanceLevel, asOf time.Time) float64 {
	daysUntil := model.DaysBetween(asOf, examDate)
	if daysUntil < 0 {
		return 0
	}

	var base float64
	switch {
	case daysUntil == 0:
		base = 10
	case daysUntil <= 3:
		base = 8
	case daysUntil <= 7:
		base = 6
	case daysUntil <= 14:
		base = 4
	default:
		base = 2
	}

	return base * importance.Weight()
}

// priorityBucket 把距考天数压缩为持久化用的 1-3 档
func priorityBucket(daysUntil int) int {
	switch {
	case daysUntil <= 7:
		return 3
	case daysUntil <= 14:
		return 2
	default:
		return 1
	}
}

// CalculateSubjectPriorities 计算评估日上每个科目的紧迫度。
// 多场考试取最高分而非求和，最近/最重要的一场起决定作用；
// 结果按科目ID排序以保证分配的确定性。
func CalculateSubjectPriorities(subjects []*model.Subject, exams []*model.Exam, asOf time.Time) []SubjectPriority {
	examsBySubject := make(map[uint][]*model.Exam, len(subjects))
	for _, exam := range exams {
		examsBySubject[exam.SubjectID] = append(examsBySubject[exam.SubjectID], exam)
	}

	priorities := make([]SubjectPriority, 0, len(subjects))
	for _, subject := range subjects {
		sp := SubjectPriority{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			DaysUntil:   noExamDays,
		}

		maxScore := 0.0
		for _, exam := range examsBySubject[subject.ID] {
			score := scoreExam(exam.ExamDate, exam.PriorityLevel, asOf)
			if score == 0 {
				continue
			}
			maxScore = math.Max(maxScore, score)

			// 最近的一场考试决定主题描述
			daysUntil := model.DaysBetween(asOf, exam.ExamDate)
			if daysUntil < sp.DaysUntil {
				sp.DaysUntil = daysUntil
				sp.ExamName = exam.ExamName
			}
		}

		sp.Urgency = fallbackUrgency
		if maxScore > 0 {
			sp.Urgency = maxScore
		}
		sp.Priority = priorityBucket(sp.DaysUntil)
		priorities = append(priorities, sp)
	}

	sort.Slice(priorities, func(i, j int) bool {
		return priorities[i].SubjectID < priorities[j].SubjectID
	})
	return priorities
}

// roundQuarter 取整到最近的一刻钟
func roundQuarter(hours float64) float64 {
	return math.Round(hours*4) / 4
}

// AllocateTime 按紧迫度比例分配当日预算。
// 除最后一个科目外按比例取整到一刻钟并保底 minHours；
// 最后一个科目吸收剩余预算，因此总和不保证恰好等于 dailyHours，
// 低紧迫度科目保底后也可能使总和超出预算，算法不做再平衡。
func AllocateTime(priorities []SubjectPriority, dailyHours, minHours float64) []Allocation {
	if len(priorities) == 0 {
		return nil
	}

	totalPriority := 0.0
	for _, p := range priorities {
		totalPriority += p.Urgency
	}

	allocations := make([]Allocation, 0, len(priorities))
	remaining := dailyHours

	for i, p := range priorities {
		var hours float64
		if i == len(priorities)-1 {
			hours = math.Max(minHours, remaining)
		} else {
			share := dailyHours / float64(len(priorities))
			if totalPriority > 0 {
				share = dailyHours * p.Urgency / totalPriority
			}
			hours = math.Max(minHours, roundQuarter(share))
		}
		remaining -= hours

		topic, description := sessionTopic(p)
		allocations = append(allocations, Allocation{
			SubjectPriority: p,
			Hours:           hours,
			Topic:           topic,
			Description:     description,
		})
	}

	return allocations
}

// sessionTopic 近考（7天内）的科目生成备考主题，其余为常规学习
func sessionTopic(p SubjectPriority) (string, string) {
	if p.DaysUntil <= 7 {
		examName := p.ExamName
		if examName == "" {
			examName = "Upcoming Exam"
		}
		return "Exam Prep: " + examName,
			"Focus on exam preparation (" + strconv.Itoa(p.DaysUntil) + " days remaining)"
	}
	return "Study Session: " + p.SubjectName, "Regular study session"
}

// BuildPlan 纯计算：遍历日期范围逐日评分和分配，产出完整的时段列表。
// 同样的输入总是产出同样的计划。
func BuildPlan(subjects []*model.Subject, exams []*model.Exam, req PlanRequest) []*model.StudySession {
	var sessions []*model.StudySession
	batchID := uuid.New().String()
	sequence := 1

	for d := model.DateOnly(req.StartDate); !d.After(model.DateOnly(req.EndDate)); d = d.AddDate(0, 0, 1) {
		if req.SkipWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}

		priorities := CalculateSubjectPriorities(subjects, exams, d)
		allocations := AllocateTime(priorities, req.DailyHours, req.MinHours)

		for _, alloc := range allocations {
			sessions = append(sessions, &model.StudySession{
				UserID:       req.UserID,
				SubjectID:    alloc.SubjectID,
				SubjectName:  alloc.SubjectName,
				StudyDate:    d,
				PlannedHours: alloc.Hours,
				Topic:        alloc.Topic,
				Description:  alloc.Description,
				Priority:     alloc.Priority,
				Sequence:     sequence,
				BatchID:      batchID,
			})
			sequence++
		}
	}

	return sessions
}

// GeneratePlan 生成并持久化计划。范围内旧计划会被原子替换，
// 是否保留已完成时段由配置决定。
func (s *PlannerService) GeneratePlan(req PlanRequest) ([]*model.StudySession, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, util.ErrInvalidDateRange
	}
	if req.DailyHours <= 0 {
		return nil, util.ErrInvalidBudget
	}

	subjects, err := s.SubjectRepo.FindByUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, util.ErrNoSubjects
	}

	exams, err := s.ExamRepo.FindByUserID(req.UserID)
	if err != nil {
		return nil, err
	}

	cfg := s.Config()
	if req.MinHours <= 0 {
		req.MinHours = cfg.MinSessionHours
	}

	sessions := BuildPlan(subjects, exams, req)

	if err := s.SessionRepo.ReplaceRange(req.UserID, req.StartDate, req.EndDate, cfg.PreserveCompleted, sessions); err != nil {
		return nil, err
	}

	monitoring.SessionsGenerated.
		WithLabelValues(strconv.FormatBool(req.SkipWeekends)).
		Add(float64(len(sessions)))

	logger.Log.Info("study plan generated",
		zap.Uint("user_id", req.UserID),
		zap.Int("sessions", len(sessions)),
		zap.String("start", req.StartDate.Format("2006-01-02")),
		zap.String("end", req.EndDate.Format("2006-01-02")))

	return sessions, nil
}

// DefaultRequest 以用户偏好和全局配置填充生成请求的缺省值
func (s *PlannerService) DefaultRequest(userID uint) PlanRequest {
	cfg := s.Config()
	req := PlanRequest{
		UserID:       userID,
		DailyHours:   cfg.DefaultDailyHours,
		SkipWeekends: cfg.SkipWeekends,
		MinHours:     cfg.MinSessionHours,
	}

	if pref, err := s.UserRepo.GetPreference(userID); err == nil {
		if pref.DailyStudyHours > 0 {
			req.DailyHours = pref.DailyStudyHours
		}
		req.SkipWeekends = pref.SkipWeekends
	}

	return req
}
