package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentLoginKey returns the cache key holding a student's active login JTI.
func (r *CacheKeyStruct) StudentLoginKey(studentID int) string {
	return fmt.Sprintf("login:student:%d", studentID)
}

var CacheKey = NewCacheKeyStruct()
