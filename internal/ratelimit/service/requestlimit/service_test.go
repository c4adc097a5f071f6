package requestlimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cosmonumero/internal/platform/config"
	"cosmonumero/internal/ratelimit/models"
	"cosmonumero/internal/ratelimit/store/bucket"
	dErrors "cosmonumero/pkg/domain-errors"
)

type failingStore struct{ *bucket.InMemoryBucketStore }

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("connection refused")
}

type RequestLimitSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func TestRequestLimitSuite(t *testing.T) {
	suite.Run(t, new(RequestLimitSuite))
}

func (s *RequestLimitSuite) SetupTest() {
	limits := LimitsFromConfig(config.RateLimit{Window: time.Minute, Checkout: 2, Reading: 5, Webhook: 10})
	svc, err := New(bucket.New(), limits)
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *RequestLimitSuite) TestCheckIP() {
	s.Run("classes are counted separately", func() {
		for range 2 {
			res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassCheckout)
			s.Require().NoError(err)
			s.True(res.Allowed)
		}
		res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassCheckout)
		s.Require().NoError(err)
		s.False(res.Allowed)

		res, err = s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassReading)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(4, res.Remaining)
	})

	s.Run("ips are counted separately", func() {
		res, err := s.service.CheckIP(s.ctx, "198.51.100.1", models.ClassCheckout)
		s.Require().NoError(err)
		s.True(res.Allowed)
	})

	s.Run("unknown class is denied", func() {
		res, err := s.service.CheckIP(s.ctx, "198.51.100.1", models.EndpointClass("admin"))
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(60, res.RetryAfter)
	})
}

func (s *RequestLimitSuite) TestStoreFailure() {
	svc, err := New(failingStore{bucket.New()}, LimitsFromConfig(config.RateLimit{Window: time.Minute, Checkout: 1}))
	s.Require().NoError(err)

	_, err = svc.CheckIP(s.ctx, "203.0.113.7", models.ClassCheckout)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *RequestLimitSuite) TestNewRequiresStore() {
	_, err := New(nil, nil)
	s.Error(err)
}

func (s *RequestLimitSuite) TestAnonymizeIP() {
	s.Equal("203.0.113.0", AnonymizeIP("203.0.113.7"))
	s.Equal("2001:db8:1::", AnonymizeIP("2001:db8:1:2::9"))
	s.Equal("invalid", AnonymizeIP("not-an-ip"))
}
