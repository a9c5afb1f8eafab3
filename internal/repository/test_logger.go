package repository

import "genius-server/internal/domain"

// Mock logger used by repository package tests.
type MockRepositoryLogger struct{}

func NewMockRepositoryLogger() domain.Logger {
	return &MockRepositoryLogger{}
}

func (l *MockRepositoryLogger) Info(msg string, fields ...interface{})             {}
func (l *MockRepositoryLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockRepositoryLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockRepositoryLogger) Warn(msg string, fields ...interface{})             {}
