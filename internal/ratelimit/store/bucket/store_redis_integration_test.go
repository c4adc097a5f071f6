//go:build integration

package bucket_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cosmonumero/internal/ratelimit/store/bucket"
	"cosmonumero/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = bucket.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

// Concurrent requests from many replicas must never exceed the limit.
func (s *RedisStoreSuite) TestConcurrentAllow() {
	ctx := context.Background()
	key := "ip:203.0.113.7:checkout"
	limit := 10
	const goroutines = 50

	var wg sync.WaitGroup
	var allowed, denied atomic.Int32
	for range goroutines {
		wg.Go(func() {
			result, err := s.store.Allow(ctx, key, limit, time.Minute)
			if err != nil {
				return
			}
			if result.Allowed {
				allowed.Add(1)
			} else {
				denied.Add(1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(limit), allowed.Load())
	s.Equal(int32(goroutines-limit), denied.Load())

	count, err := s.store.GetCurrentCount(ctx, key)
	s.Require().NoError(err)
	s.Equal(limit, count)
}

func (s *RedisStoreSuite) TestDeniedCarriesRetryAfter() {
	ctx := context.Background()
	key := "ip:203.0.113.8:reading"
	for range 2 {
		_, err := s.store.Allow(ctx, key, 2, time.Minute)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(ctx, key, 2, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(0, result.Remaining)
	s.Positive(result.RetryAfter)
	s.LessOrEqual(result.RetryAfter, 60)
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	key := "ip:203.0.113.9:webhook"
	window := time.Second

	_, err := s.store.Allow(ctx, key, 1, window)
	s.Require().NoError(err)
	result, err := s.store.Allow(ctx, key, 1, window)
	s.Require().NoError(err)
	s.False(result.Allowed)

	time.Sleep(1500 * time.Millisecond)

	result, err = s.store.Allow(ctx, key, 1, window)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisStoreSuite) TestReset() {
	ctx := context.Background()
	key := "ip:203.0.113.10:checkout"
	_, err := s.store.Allow(ctx, key, 1, time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Reset(ctx, key))

	result, err := s.store.Allow(ctx, key, 1, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}
