package utils

import "github.com/google/uuid"

// NewID 生成随机 ID（uuid v4）
func NewID() string { return uuid.NewString() }
