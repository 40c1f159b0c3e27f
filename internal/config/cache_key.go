package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// HeadlineStatsKey returns the cache key for the principal's headline statistics
// of a given calendar day (YYYY-MM-DD).
func (r *CacheKeyStruct) HeadlineStatsKey(day string) string {
	return fmt.Sprintf("report:stats:%s", day)
}

// RevokedTokenKey returns the key marking a token id as logged out.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// JournalFeedChannel returns the Redis PubSub channel carrying submitted journals.
func (r *CacheKeyStruct) JournalFeedChannel() string {
	return "journal:feed"
}

var CacheKey = NewCacheKeyStruct()
