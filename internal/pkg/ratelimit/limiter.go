package ratelimit

import (
	"sync"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"golang.org/x/time/rate"
)

// Limit describes one bucket class: events allowed per period
type Limit struct {
	Events int
	Per    time.Duration
}

// Limiter keeps a token bucket per endpoint class. Buckets are created
// lazily on first use and live for the process lifetime. Consuming is
// non blocking. State is in memory only, not persisted across restarts.
type Limiter struct {
	m       sync.Mutex
	limits  map[string]Limit
	buckets map[string]*rate.Limiter
	def     Limit
}

// NewLimiter creates Limiter instance with a default limit for unknown keys
func NewLimiter(def Limit) *Limiter {
	return &Limiter{limits: make(map[string]Limit),
		buckets: make(map[string]*rate.Limiter), def: def}
}

// SetLimit configures the bucket class for key
func (l *Limiter) SetLimit(key string, limit Limit) {
	l.m.Lock()
	defer l.m.Unlock()
	l.limits[key] = limit
	delete(l.buckets, key)
}

// TryConsume takes one token from the key's bucket.
// It returns false immediately when the bucket is empty.
func (l *Limiter) TryConsume(key string) bool {
	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.m.Lock()
	defer l.m.Unlock()
	b, f := l.buckets[key]
	if !f {
		lm, f := l.limits[key]
		if !f {
			lm = l.def
		}
		cmdapp.Log.Infof("Init rate bucket '%s': %d per %v", key, lm.Events, lm.Per)
		b = rate.NewLimiter(rate.Every(lm.Per/time.Duration(lm.Events)), lm.Events)
		l.buckets[key] = b
	}
	return b
}
