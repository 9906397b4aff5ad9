package service

import (
	"context"
	"study_planner_backend/internal/model"
	"testing"
)

func TestDetermineNextActionLadder(t *testing.T) {
	asOf := date("2026-03-02")
	examTomorrow := &model.Exam{SubjectID: 1, ExamName: "Midterm", ExamDate: date("2026-03-03")}
	examNextWeek := &model.Exam{SubjectID: 1, ExamName: "Final", ExamDate: date("2026-03-08")}

	cases := []struct {
		name        string
		patterns    StudyPatterns
		exams       []*model.Exam
		missedCount int
		wantAction  string
		wantLevel   string
	}{
		{"exam within a day wins", StudyPatterns{CompletionRate: 90}, []*model.Exam{examTomorrow}, 10, ActionUrgentExamPrep, "critical"},
		{"backlog beats a week-out exam", StudyPatterns{}, []*model.Exam{examNextWeek}, 4, ActionCatchUp, "high"},
		{"exam within a week", StudyPatterns{}, []*model.Exam{examNextWeek}, 3, ActionExamPreparation, "medium"},
		{"good rate keeps routine", StudyPatterns{CompletionRate: 70}, nil, 0, ActionContinueRoutine, "low"},
		{"default is consistency work", StudyPatterns{CompletionRate: 50}, nil, 0, ActionImproveConsistency, "medium"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action := DetermineNextAction(tc.patterns, tc.exams, tc.missedCount, asOf)
			if action.Action != tc.wantAction {
				t.Errorf("action = %q, want %q", action.Action, tc.wantAction)
			}
			if action.Priority != tc.wantLevel {
				t.Errorf("priority = %q, want %q", action.Priority, tc.wantLevel)
			}
		})
	}
}

func TestBuildCatchUpPlanSplitsRemainder(t *testing.T) {
	asOf := date("2026-03-09")
	var missed []*model.StudySession
	for i := 0; i < 5; i++ {
		missed = append(missed, &model.StudySession{
			BaseModel:    model.BaseModel{ID: uint(i + 1)},
			UserID:       1,
			SubjectID:    uint(i%2 + 1),
			StudyDate:    date("2026-03-02").AddDate(0, 0, i),
			PlannedHours: 1,
			Sequence:     i + 1,
		})
	}

	plan := BuildCatchUpPlan(missed, 3, asOf)
	if plan == nil {
		t.Fatal("expected a plan for 5 missed sessions")
	}
	if plan.TotalMissed != 5 || plan.SubjectsAffected != 2 {
		t.Errorf("totals = %d missed / %d subjects, want 5 / 2", plan.TotalMissed, plan.SubjectsAffected)
	}
	if len(plan.RecommendedSchedule) != 3 {
		t.Fatalf("expected 3 days, got %d", len(plan.RecommendedSchedule))
	}

	// 5个任务摊3天：1、1、3，最后一天吸收余数
	wantTasks := []int{1, 1, 3}
	for i, day := range plan.RecommendedSchedule {
		if day.Tasks != wantTasks[i] {
			t.Errorf("day %d tasks = %d, want %d", i+1, day.Tasks, wantTasks[i])
		}
		if day.Day != i+1 {
			t.Errorf("day index = %d, want %d", day.Day, i+1)
		}
	}
	if plan.RecommendedSchedule[0].Date != "2026-03-09" {
		t.Errorf("first catch-up day = %s, want asOf date", plan.RecommendedSchedule[0].Date)
	}
	if plan.RecommendedSchedule[2].TotalHours != 3 {
		t.Errorf("last day hours = %v, want 3", plan.RecommendedSchedule[2].TotalHours)
	}
}

func TestBuildCatchUpPlanFewerTasksThanDays(t *testing.T) {
	asOf := date("2026-03-09")
	missed := []*model.StudySession{
		{BaseModel: model.BaseModel{ID: 1}, SubjectID: 1, StudyDate: date("2026-03-05"), PlannedHours: 2},
		{BaseModel: model.BaseModel{ID: 2}, SubjectID: 1, StudyDate: date("2026-03-06"), PlannedHours: 2},
	}

	plan := BuildCatchUpPlan(missed, 3, asOf)
	if len(plan.RecommendedSchedule) != 2 {
		t.Fatalf("2 tasks should spread over 2 days, got %d", len(plan.RecommendedSchedule))
	}
	for _, day := range plan.RecommendedSchedule {
		if day.Tasks != 1 {
			t.Errorf("day %d tasks = %d, want 1", day.Day, day.Tasks)
		}
	}
}

func TestBuildCatchUpPlanEmpty(t *testing.T) {
	if plan := BuildCatchUpPlan(nil, 3, date("2026-03-09")); plan != nil {
		t.Errorf("no missed sessions should yield nil plan, got %+v", plan)
	}
}

func TestCalculateMotivation(t *testing.T) {
	cases := []struct {
		name      string
		patterns  StudyPatterns
		wantLevel string
		wantScore float64
	}{
		{"high with activity bonus", StudyPatterns{CompletionRate: 90, ConsistencyScore: 80, StudyDays: 6}, "high", 88},
		{"good with small bonus", StudyPatterns{CompletionRate: 70, ConsistencyScore: 60, StudyDays: 3}, "good", 62},
		{"moderate", StudyPatterns{CompletionRate: 50, ConsistencyScore: 50, StudyDays: 1}, "moderate", 40},
		{"low", StudyPatterns{CompletionRate: 20, ConsistencyScore: 10, StudyDays: 0}, "low", 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateMotivation(tc.patterns)
			if got.Level != tc.wantLevel {
				t.Errorf("level = %q, want %q", got.Level, tc.wantLevel)
			}
			if got.Score != tc.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tc.wantScore)
			}
			if got.Message == "" {
				t.Errorf("message should not be empty")
			}
		})
	}
}

func TestIdentifyWeakSubjects(t *testing.T) {
	sessions := []*model.StudySession{
		// Math: 1/4 = 25%
		{SubjectID: 1, SubjectName: "Math", IsCompleted: true},
		{SubjectID: 1, SubjectName: "Math"},
		{SubjectID: 1, SubjectName: "Math"},
		{SubjectID: 1, SubjectName: "Math"},
		// Physics: 1/2 = 50%
		{SubjectID: 2, SubjectName: "Physics", IsCompleted: true},
		{SubjectID: 2, SubjectName: "Physics"},
		// History: 2/2 = 100%，不算弱势
		{SubjectID: 3, SubjectName: "History", IsCompleted: true},
		{SubjectID: 3, SubjectName: "History", IsCompleted: true},
	}

	weak := IdentifyWeakSubjects(sessions)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak subjects, got %d", len(weak))
	}
	if weak[0].SubjectName != "Math" || weak[0].CompletionRate != 25.0 {
		t.Errorf("weakest first: got %s at %v%%", weak[0].SubjectName, weak[0].CompletionRate)
	}
	if weak[1].SubjectName != "Physics" {
		t.Errorf("second weak subject = %s, want Physics", weak[1].SubjectName)
	}
}

func TestPrioritizeSubjects(t *testing.T) {
	asOf := date("2026-03-02")
	exams := []*model.Exam{
		{SubjectID: 1, ExamName: "Midterm", ExamDate: date("2026-03-04"), Subject: &model.Subject{Name: "Math"}},
		{SubjectID: 2, ExamName: "Quiz", ExamDate: date("2026-03-08"), Subject: &model.Subject{Name: "Physics"}},
	}
	weak := []WeakSubject{
		{SubjectID: 3, SubjectName: "History", CompletionRate: 30},
		{SubjectID: 4, SubjectName: "Biology", CompletionRate: 45},
		{SubjectID: 5, SubjectName: "Chemistry", CompletionRate: 55},
	}

	priorities := PrioritizeSubjects(weak, exams, asOf)
	// 2场考试 + 最多2个弱势科目
	if len(priorities) != 4 {
		t.Fatalf("expected 4 priority subjects, got %d", len(priorities))
	}
	if priorities[0].SubjectID != 1 || priorities[0].Urgency != "high" {
		t.Errorf("exam within 3 days should be high urgency, got %+v", priorities[0])
	}
	if priorities[1].Urgency != "medium" {
		t.Errorf("exam within a week should be medium urgency, got %+v", priorities[1])
	}
	if priorities[2].SubjectID != 3 || priorities[3].SubjectID != 4 {
		t.Errorf("weak subjects should follow in ascending rate order, got %+v", priorities[2:])
	}
}

func TestGenerateStudyTipsAlwaysHasTechnique(t *testing.T) {
	tips := GenerateStudyTips(StudyPatterns{CompletionRate: 95, ConsistencyScore: 90, AverageDailyHours: 4})
	if len(tips) != 1 || tips[0].Category != "technique" {
		t.Errorf("strong patterns should still get the technique tip, got %+v", tips)
	}

	tips = GenerateStudyTips(StudyPatterns{CompletionRate: 30, ConsistencyScore: 30, AverageDailyHours: 1})
	if len(tips) != 4 {
		t.Errorf("weak patterns should trigger all tips, got %d", len(tips))
	}
}

func TestRecommendAggregates(t *testing.T) {
	asOf := date("2026-03-09")
	store := &mockSessionStore{sessions: []*model.StudySession{
		{BaseModel: model.BaseModel{ID: 1}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-02"), PlannedHours: 2},
		{BaseModel: model.BaseModel{ID: 2}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-03"), PlannedHours: 2},
		{BaseModel: model.BaseModel{ID: 3}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-04"), PlannedHours: 2},
		{BaseModel: model.BaseModel{ID: 4}, UserID: 1, SubjectID: 1, SubjectName: "Math",
			StudyDate: date("2026-03-05"), PlannedHours: 2},
	}}
	exams := &mockExamRepo{exams: []*model.Exam{
		{UserID: 1, SubjectID: 1, ExamName: "Midterm", ExamDate: date("2026-03-12")},
	}}

	svc := NewRecommendationService(store, exams, nil, 7)
	rec, err := svc.Recommend(context.Background(), 1, asOf)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// 4个逾期任务压过一周内的考试
	if rec.NextAction.Action != ActionCatchUp {
		t.Errorf("next action = %q, want %q", rec.NextAction.Action, ActionCatchUp)
	}
	if rec.CatchUpPlan == nil || rec.CatchUpPlan.TotalMissed != 4 {
		t.Fatalf("catch-up plan = %+v, want 4 missed", rec.CatchUpPlan)
	}
	if len(rec.PrioritySubjects) == 0 {
		t.Errorf("expected priority subjects for the upcoming exam and weak subject")
	}
	if rec.Motivation.Level != "low" {
		t.Errorf("motivation = %q, want low for zero completions", rec.Motivation.Level)
	}
}
