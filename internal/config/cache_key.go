package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// IntakeDraftKey returns the cache key holding a user's unsaved intake progress
// for one assessment.
func (r *CacheKeyStruct) IntakeDraftKey(userID, assessmentID string) string {
	return fmt.Sprintf("user:%s:assessment:%s:intake_draft", userID, assessmentID)
}

// ProfileLockKey returns the key guarding a single in-flight profile run per user.
func (r *CacheKeyStruct) ProfileLockKey(userID string) string {
	return fmt.Sprintf("user:%s:profile_lock", userID)
}

var CacheKey = NewCacheKeyStruct()
