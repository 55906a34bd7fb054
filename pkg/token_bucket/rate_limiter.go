package token_bucket

import (
	"sync"
	"time"
)

/*
по сути алгоритм простой, реализовываем Allow метод который возвращает true/false,
то есть - мы либо принимаем запрос, либо отклоняем.
Keyed держит по корзине на ключ (курьер или ip), чтобы один клиент не выедал лимит остальных.
*/

type Clock func() time.Time

type TokenBucket struct {
	capacity   int
	tokens     float64
	refillRate float64
	lastRefill time.Time
	now        Clock
	mu         sync.Mutex
}

func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int, refillRate float64, now Clock) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

func (t *TokenBucket) refill() {
	now := t.now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	t.tokens += elapsed * t.refillRate
	if t.tokens > float64(t.capacity) {
		t.tokens = float64(t.capacity)
	}
	t.lastRefill = now
}

// full корзина простояла достаточно, чтобы её можно было выкинуть из Keyed.
func (t *TokenBucket) full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	return t.tokens >= float64(t.capacity)
}

type Keyed struct {
	capacity   int
	refillRate float64
	now        Clock

	mu      sync.Mutex
	buckets map[string]*TokenBucket
	calls   int
}

const sweepEvery = 1024

func NewKeyed(capacity int, refillRate float64) *Keyed {
	return NewKeyedWithClock(capacity, refillRate, time.Now)
}

func NewKeyedWithClock(capacity int, refillRate float64, now Clock) *Keyed {
	return &Keyed{
		capacity:   capacity,
		refillRate: refillRate,
		now:        now,
		buckets:    make(map[string]*TokenBucket),
	}
}

func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	bucket, ok := k.buckets[key]
	if !ok {
		bucket = newTokenBucket(k.capacity, k.refillRate, k.now)
		k.buckets[key] = bucket
	}
	k.calls++
	if k.calls%sweepEvery == 0 {
		k.sweepLocked(key)
	}
	k.mu.Unlock()

	return bucket.Allow()
}

func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

func (k *Keyed) sweepLocked(keep string) {
	for key, bucket := range k.buckets {
		if key != keep && bucket.full() {
			delete(k.buckets, key)
		}
	}
}
