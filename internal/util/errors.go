package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrInvalidPassword  = errors.New("invalid email or password")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrExamNotFound     = errors.New("exam not found")
	ErrSessionNotFound  = errors.New("study session not found")
	ErrNoSubjects       = errors.New("no subjects found, please add subjects first")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidBudget    = errors.New("daily study hours must be positive")
	// ErrFutureCompletion 禁止提前完成未来日期的学习任务
	ErrFutureCompletion = errors.New("cannot complete a session scheduled in the future")
)
