package service

import (
	"strings"
	"study_planner_backend/internal/model"
	"testing"
)

func TestFormatHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{2, "2h"},
		{2.5, "2h 30m"},
		{0.5, "30m"},
		{0.25, "15m"},
		{1.75, "1h 45m"},
		{2.999, "3h"},
	}
	for _, tc := range cases {
		if got := formatHours(tc.hours); got != tc.want {
			t.Errorf("formatHours(%v) = %q, want %q", tc.hours, got, tc.want)
		}
	}
}

func TestBuildDailyDigest(t *testing.T) {
	asOf := date("2026-03-02")
	sessions := []*model.StudySession{
		{SubjectName: "Math", Topic: "Exam Prep: Midterm", PlannedHours: 2.5},
		{SubjectName: "Physics", Topic: "Study Session: Physics", PlannedHours: 1, IsCompleted: true},
	}
	exams := []*model.Exam{
		{ExamName: "Midterm", ExamDate: date("2026-03-02")},
		{ExamName: "Quiz", ExamDate: date("2026-03-03")},
		{ExamName: "Final", ExamDate: date("2026-03-07")},
	}

	digest := BuildDailyDigest(sessions, exams, asOf)

	for _, want := range []string{
		"2026-03-02",
		"Math - Exam Prep: Midterm (2h 30m)",
		"[x] Physics",
		"Midterm - 2026-03-02 (TODAY!)",
		"Quiz - 2026-03-03 (tomorrow)",
		"Final - 2026-03-07 (in 5 days)",
	} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}
}

func TestBuildDailyDigestEmptyDay(t *testing.T) {
	digest := BuildDailyDigest(nil, nil, date("2026-03-02"))
	if !strings.Contains(digest, "No study sessions scheduled") {
		t.Errorf("empty day digest should say so:\n%s", digest)
	}
}
