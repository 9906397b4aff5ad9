package service

import (
	"errors"
	"os"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func testPlannerConfig() config.PlannerConfig {
	return config.PlannerConfig{
		DefaultDailyHours: 4.0,
		MinSessionHours:   0.5,
		SkipWeekends:      true,
		PreserveCompleted: true,
		ExamLookaheadDays: 7,
		CatchUpMaxDays:    3,
	}
}

func TestScoreExamBands(t *testing.T) {
	asOf := date("2026-03-02")

	cases := []struct {
		name     string
		examDate string
		level    model.ImportanceLevel
		want     float64
	}{
		{"same day", "2026-03-02", model.ImportanceMedium, 10},
		{"three days out", "2026-03-05", model.ImportanceMedium, 8},
		{"one week out", "2026-03-09", model.ImportanceMedium, 6},
		{"two weeks out", "2026-03-16", model.ImportanceMedium, 4},
		{"far out", "2026-04-01", model.ImportanceMedium, 2},
		{"high importance scales up", "2026-03-05", model.ImportanceHigh, 12},
		{"low importance scales down", "2026-03-05", model.ImportanceLow, 5.6},
		{"unknown level keeps base", "2026-03-05", model.ImportanceLevel("exotic"), 8},
		{"past exam ignored", "2026-03-01", model.ImportanceHigh, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreExam(date(tc.examDate), tc.level, asOf)
			if got != tc.want {
				t.Errorf("scoreExam(%s, %s) = %v, want %v", tc.examDate, tc.level, got, tc.want)
			}
		})
	}
}

func TestCalculateSubjectPriorities(t *testing.T) {
	asOf := date("2026-03-02")
	subjects := []*model.Subject{
		{BaseModel: model.BaseModel{ID: 2}, UserID: 1, Name: "Physics"},
		{BaseModel: model.BaseModel{ID: 1}, UserID: 1, Name: "Math"},
		{BaseModel: model.BaseModel{ID: 3}, UserID: 1, Name: "History"},
	}
	exams := []*model.Exam{
		// 两场数学考试，较近且较重要的一场决定紧迫度
		{UserID: 1, SubjectID: 1, ExamName: "Midterm", ExamDate: date("2026-03-05"), PriorityLevel: model.ImportanceHigh},
		{UserID: 1, SubjectID: 1, ExamName: "Final", ExamDate: date("2026-04-10"), PriorityLevel: model.ImportanceMedium},
		// 过期考试不贡献分数
		{UserID: 1, SubjectID: 2, ExamName: "Quiz", ExamDate: date("2026-02-20"), PriorityLevel: model.ImportanceHigh},
	}

	priorities := CalculateSubjectPriorities(subjects, exams, asOf)
	if len(priorities) != 3 {
		t.Fatalf("expected 3 priorities, got %d", len(priorities))
	}

	// 结果按科目ID升序
	for i := 1; i < len(priorities); i++ {
		if priorities[i-1].SubjectID >= priorities[i].SubjectID {
			t.Errorf("priorities not sorted by subject id: %v before %v",
				priorities[i-1].SubjectID, priorities[i].SubjectID)
		}
	}

	math := priorities[0]
	if math.Urgency != 12 {
		t.Errorf("math urgency = %v, want 12 (8 * 1.5 from nearest exam)", math.Urgency)
	}
	if math.DaysUntil != 3 || math.ExamName != "Midterm" {
		t.Errorf("math nearest exam = %q in %d days, want Midterm in 3", math.ExamName, math.DaysUntil)
	}
	if math.Priority != 3 {
		t.Errorf("math priority bucket = %d, want 3", math.Priority)
	}

	physics := priorities[1]
	if physics.Urgency != fallbackUrgency {
		t.Errorf("physics urgency = %v, want fallback %v (only a past exam)", physics.Urgency, fallbackUrgency)
	}
	if physics.Priority != 1 {
		t.Errorf("physics priority bucket = %d, want 1", physics.Priority)
	}

	history := priorities[2]
	if history.Urgency != fallbackUrgency {
		t.Errorf("history urgency = %v, want fallback %v (no exams)", history.Urgency, fallbackUrgency)
	}
}

func TestAllocateTimeProportional(t *testing.T) {
	// 数学紧迫度6，英语兜底1.0：数学拿 4*6/7 ≈ 3.43 → 3.5，英语吸收剩余 0.5
	priorities := []SubjectPriority{
		{SubjectID: 1, SubjectName: "Math", Urgency: 6, DaysUntil: 5, ExamName: "Midterm", Priority: 3},
		{SubjectID: 2, SubjectName: "English", Urgency: 1.0, DaysUntil: noExamDays, Priority: 1},
	}

	allocations := AllocateTime(priorities, 4.0, 0.5)
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if allocations[0].Hours != 3.5 {
		t.Errorf("math hours = %v, want 3.5", allocations[0].Hours)
	}
	if allocations[1].Hours != 0.5 {
		t.Errorf("english hours = %v, want 0.5", allocations[1].Hours)
	}
}

func TestAllocateTimeMinimumFloor(t *testing.T) {
	// 紧迫度再低也不会低于最小时段
	priorities := []SubjectPriority{
		{SubjectID: 1, Urgency: 20, DaysUntil: 0, Priority: 3},
		{SubjectID: 2, Urgency: 0.1, DaysUntil: noExamDays, Priority: 1},
		{SubjectID: 3, Urgency: 0.1, DaysUntil: noExamDays, Priority: 1},
	}

	allocations := AllocateTime(priorities, 2.0, 0.5)
	for _, alloc := range allocations {
		if alloc.Hours < 0.5 {
			t.Errorf("subject %d allocated %v hours, below 0.5 floor", alloc.SubjectID, alloc.Hours)
		}
	}
}

func TestAllocateTimeEqualSplitWithoutUrgency(t *testing.T) {
	priorities := []SubjectPriority{
		{SubjectID: 1, DaysUntil: noExamDays},
		{SubjectID: 2, DaysUntil: noExamDays},
	}

	allocations := AllocateTime(priorities, 4.0, 0.5)
	if allocations[0].Hours != 2 || allocations[1].Hours != 2 {
		t.Errorf("zero total urgency should split evenly, got %v and %v",
			allocations[0].Hours, allocations[1].Hours)
	}
}

func TestSessionTopicNearExam(t *testing.T) {
	topic, description := sessionTopic(SubjectPriority{
		SubjectName: "Math", DaysUntil: 5, ExamName: "Midterm",
	})
	if topic != "Exam Prep: Midterm" {
		t.Errorf("topic = %q", topic)
	}
	if description != "Focus on exam preparation (5 days remaining)" {
		t.Errorf("description = %q", description)
	}

	topic, description = sessionTopic(SubjectPriority{SubjectName: "Math", DaysUntil: 20})
	if topic != "Study Session: Math" || description != "Regular study session" {
		t.Errorf("regular topic = %q / %q", topic, description)
	}
}

func TestBuildPlanSkipsWeekends(t *testing.T) {
	subjects := []*model.Subject{{BaseModel: model.BaseModel{ID: 1}, UserID: 1, Name: "Math"}}
	req := PlanRequest{
		UserID:     1,
		DailyHours: 4,
		// 2026-03-06 周五到 2026-03-09 周一
		StartDate:    date("2026-03-06"),
		EndDate:      date("2026-03-09"),
		SkipWeekends: true,
		MinHours:     0.5,
	}

	sessions := BuildPlan(subjects, nil, req)
	if len(sessions) != 2 {
		t.Fatalf("expected sessions on Fri and Mon only, got %d", len(sessions))
	}
	for _, session := range sessions {
		wd := session.StudyDate.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("session scheduled on weekend %s", session.StudyDate.Format("2006-01-02"))
		}
	}

	req.SkipWeekends = false
	sessions = BuildPlan(subjects, nil, req)
	if len(sessions) != 4 {
		t.Errorf("without weekend skip expected 4 sessions, got %d", len(sessions))
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	subjects := []*model.Subject{
		{BaseModel: model.BaseModel{ID: 1}, UserID: 1, Name: "Math"},
		{BaseModel: model.BaseModel{ID: 2}, UserID: 1, Name: "Physics"},
	}
	exams := []*model.Exam{
		{UserID: 1, SubjectID: 1, ExamName: "Midterm", ExamDate: date("2026-03-10"), PriorityLevel: model.ImportanceHigh},
	}
	req := PlanRequest{
		UserID:       1,
		DailyHours:   4,
		StartDate:    date("2026-03-02"),
		EndDate:      date("2026-03-06"),
		SkipWeekends: true,
		MinHours:     0.5,
	}

	first := BuildPlan(subjects, exams, req)
	second := BuildPlan(subjects, exams, req)

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("plan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.SubjectID != b.SubjectID || a.PlannedHours != b.PlannedHours ||
			!a.StudyDate.Equal(b.StudyDate) || a.Topic != b.Topic {
			t.Errorf("plan not deterministic at index %d: %+v vs %+v", i, a, b)
		}
	}

	// 同一批次内序号严格递增
	for i := 1; i < len(first); i++ {
		if first[i].Sequence != first[i-1].Sequence+1 {
			t.Errorf("sequence not strictly increasing at index %d", i)
		}
		if first[i].BatchID != first[0].BatchID {
			t.Errorf("batch id differs within one plan")
		}
	}
	if first[0].BatchID == second[0].BatchID {
		t.Errorf("separate generations should carry distinct batch ids")
	}
}

func TestGeneratePlanValidation(t *testing.T) {
	planner := NewPlannerService(
		&mockSubjectRepo{},
		&mockExamRepo{},
		&mockSessionStore{},
		&mockPreferenceRepo{},
		testPlannerConfig(),
	)

	_, err := planner.GeneratePlan(PlanRequest{
		UserID: 1, DailyHours: 4,
		StartDate: date("2026-03-10"), EndDate: date("2026-03-02"),
	})
	if !errors.Is(err, util.ErrInvalidDateRange) {
		t.Errorf("inverted range: got %v, want ErrInvalidDateRange", err)
	}

	_, err = planner.GeneratePlan(PlanRequest{
		UserID: 1, DailyHours: 0,
		StartDate: date("2026-03-02"), EndDate: date("2026-03-06"),
	})
	if !errors.Is(err, util.ErrInvalidBudget) {
		t.Errorf("zero budget: got %v, want ErrInvalidBudget", err)
	}

	_, err = planner.GeneratePlan(PlanRequest{
		UserID: 1, DailyHours: 4,
		StartDate: date("2026-03-02"), EndDate: date("2026-03-06"),
	})
	if !errors.Is(err, util.ErrNoSubjects) {
		t.Errorf("no subjects: got %v, want ErrNoSubjects", err)
	}
}

func TestGeneratePlanReplacesRange(t *testing.T) {
	store := &mockSessionStore{}
	store.sessions = []*model.StudySession{
		{BaseModel: model.BaseModel{ID: 100}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-03"), PlannedHours: 2, IsCompleted: true},
		{BaseModel: model.BaseModel{ID: 101}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-04"), PlannedHours: 2},
	}
	store.nextID = 101

	planner := NewPlannerService(
		&mockSubjectRepo{subjects: []*model.Subject{{BaseModel: model.BaseModel{ID: 1}, UserID: 1, Name: "Math"}}},
		&mockExamRepo{},
		store,
		&mockPreferenceRepo{},
		testPlannerConfig(),
	)

	sessions, err := planner.GeneratePlan(PlanRequest{
		UserID: 1, DailyHours: 4,
		StartDate: date("2026-03-02"), EndDate: date("2026-03-06"),
		SkipWeekends: true, MinHours: 0.5,
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(sessions) != 5 {
		t.Fatalf("expected 5 sessions for one subject over 5 weekdays, got %d", len(sessions))
	}
	if store.replaceCalls != 1 || !store.lastPreserve {
		t.Errorf("expected one ReplaceRange call with preserveCompleted=true, got calls=%d preserve=%v",
			store.replaceCalls, store.lastPreserve)
	}

	// 已完成的旧时段保留，未完成的被替换
	var keptCompleted, keptOld bool
	for _, s := range store.sessions {
		if s.ID == 100 {
			keptCompleted = true
		}
		if s.ID == 101 {
			keptOld = true
		}
	}
	if !keptCompleted {
		t.Errorf("completed session should survive regeneration")
	}
	if keptOld {
		t.Errorf("incomplete session should be replaced")
	}
}

func TestGeneratePlanWithoutPreserve(t *testing.T) {
	store := &mockSessionStore{}
	store.sessions = []*model.StudySession{
		{BaseModel: model.BaseModel{ID: 100}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-03"), PlannedHours: 2, IsCompleted: true},
	}
	store.nextID = 100

	cfg := testPlannerConfig()
	cfg.PreserveCompleted = false
	planner := NewPlannerService(
		&mockSubjectRepo{subjects: []*model.Subject{{BaseModel: model.BaseModel{ID: 1}, UserID: 1, Name: "Math"}}},
		&mockExamRepo{},
		store,
		&mockPreferenceRepo{},
		cfg,
	)

	_, err := planner.GeneratePlan(PlanRequest{
		UserID: 1, DailyHours: 4,
		StartDate: date("2026-03-02"), EndDate: date("2026-03-06"),
		SkipWeekends: true, MinHours: 0.5,
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	for _, s := range store.sessions {
		if s.ID == 100 {
			t.Errorf("with preserve disabled the completed session should be replaced too")
		}
	}
}

func TestDefaultRequestUsesPreference(t *testing.T) {
	planner := NewPlannerService(
		&mockSubjectRepo{},
		&mockExamRepo{},
		&mockSessionStore{},
		&mockPreferenceRepo{prefs: map[uint]*model.PlannerPreference{
			1: {UserID: 1, DailyStudyHours: 6, SkipWeekends: false},
		}},
		testPlannerConfig(),
	)

	req := planner.DefaultRequest(1)
	if req.DailyHours != 6 {
		t.Errorf("daily hours = %v, want preference value 6", req.DailyHours)
	}
	if req.SkipWeekends {
		t.Errorf("skip weekends should follow preference (false)")
	}

	req = planner.DefaultRequest(2)
	if req.DailyHours != 4 || !req.SkipWeekends {
		t.Errorf("user without preference should fall back to config, got %+v", req)
	}
}

func TestApplyConfigHotReload(t *testing.T) {
	planner := NewPlannerService(
		&mockSubjectRepo{}, &mockExamRepo{}, &mockSessionStore{}, &mockPreferenceRepo{},
		testPlannerConfig(),
	)

	updated := testPlannerConfig()
	updated.DefaultDailyHours = 8
	planner.ApplyConfig(updated)

	if planner.Config().DefaultDailyHours != 8 {
		t.Errorf("config not applied, got %v", planner.Config().DefaultDailyHours)
	}
}
