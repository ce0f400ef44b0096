package models

import "errors"

var (
	// ErrNotFound 记录不存在，或不属于当前主人
	ErrNotFound = errors.New("data not found")
	// ErrIntegrity 存储拒绝写入（约束冲突等）
	ErrIntegrity = errors.New("failed to save data")
	// ErrPreconditionViolation 调用方违反前置条件（编程错误）
	ErrPreconditionViolation = errors.New("precondition violation")
)
