package cache

import "time"

// CacheService is the process-local keyvalue store shared by the
// store-name lookups and the coupon draft sessions. Entries expire on
// their own; callers must tolerate a miss at any time.
type CacheService interface {
	// Get returns the value and true when the key is present and not
	// yet expired.
	Get(key string) (interface{}, bool)

	// Set stores value under key for the given duration.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	// Flush drops every entry.
	Flush()
}
