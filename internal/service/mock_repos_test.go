package service

import (
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type mockSubjectRepo struct {
	subjects []*model.Subject
}

func (m *mockSubjectRepo) FindByUserID(userID uint) ([]*model.Subject, error) {
	var out []*model.Subject
	for _, s := range m.subjects {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubjectRepo) CountByUserID(userID uint) (int64, error) {
	var n int64
	for _, s := range m.subjects {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

type mockExamRepo struct {
	exams []*model.Exam
}

func (m *mockExamRepo) FindByUserID(userID uint) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range m.exams {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExamRepo) FindUpcoming(userID uint, from, to time.Time) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range m.exams {
		d := model.DateOnly(e.ExamDate)
		if e.UserID == userID && !d.Before(model.DateOnly(from)) && !d.After(model.DateOnly(to)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockSessionStore struct {
	sessions []*model.StudySession
	nextID   uint

	replaceCalls int
	lastPreserve bool
}

func (m *mockSessionStore) FindByID(id uint) (*model.StudySession, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionStore) FindByUserAndRange(userID uint, start, end time.Time) ([]*model.StudySession, error) {
	var out []*model.StudySession
	for _, s := range m.sessions {
		d := model.DateOnly(s.StudyDate)
		if s.UserID == userID && !d.Before(model.DateOnly(start)) && !d.After(model.DateOnly(end)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) FindByUserAndDate(userID uint, date time.Time) ([]*model.StudySession, error) {
	var out []*model.StudySession
	for _, s := range m.sessions {
		if s.UserID == userID && model.DateOnly(s.StudyDate).Equal(model.DateOnly(date)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) FindOverdue(userID uint, asOf time.Time) ([]*model.StudySession, error) {
	var out []*model.StudySession
	for _, s := range m.sessions {
		if s.UserID == userID && !s.IsCompleted && model.DateOnly(s.StudyDate).Before(model.DateOnly(asOf)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) ReplaceRange(userID uint, start, end time.Time, preserveCompleted bool, sessions []*model.StudySession) error {
	m.replaceCalls++
	m.lastPreserve = preserveCompleted

	var kept []*model.StudySession
	for _, s := range m.sessions {
		d := model.DateOnly(s.StudyDate)
		inRange := s.UserID == userID && !d.Before(model.DateOnly(start)) && !d.After(model.DateOnly(end))
		if !inRange || (preserveCompleted && s.IsCompleted) {
			kept = append(kept, s)
		}
	}
	for _, s := range sessions {
		m.nextID++
		s.ID = m.nextID
		kept = append(kept, s)
	}
	m.sessions = kept
	return nil
}

func (m *mockSessionStore) Update(session *model.StudySession) error {
	for i, s := range m.sessions {
		if s.ID == session.ID {
			m.sessions[i] = session
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSessionStore) FindUsersWithPendingSessions() ([]uint, error) {
	seen := make(map[uint]bool)
	var out []uint
	for _, s := range m.sessions {
		if !s.IsCompleted && !seen[s.UserID] {
			seen[s.UserID] = true
			out = append(out, s.UserID)
		}
	}
	return out, nil
}

type mockPreferenceRepo struct {
	prefs map[uint]*model.PlannerPreference
}

func (m *mockPreferenceRepo) GetPreference(userID uint) (*model.PlannerPreference, error) {
	if pref, ok := m.prefs[userID]; ok {
		return pref, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
