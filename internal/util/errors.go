package util

import "errors"

var (
	ErrStudentNotFound         = errors.New("student not found")
	ErrLibraryIDRegistered     = errors.New("该 Library ID 已被注册")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrLeetCodeUsernameMissing = errors.New("LeetCode username is required")
	ErrInvalidLeetCodeUsername = errors.New("invalid LeetCode username")
	ErrLeetCodeUserNotFound    = errors.New("leetcode user not found")
	ErrAnalysisParseFailed     = errors.New("failed to parse analysis results")
	ErrSheetNotFound           = errors.New("sheet not found")
)
