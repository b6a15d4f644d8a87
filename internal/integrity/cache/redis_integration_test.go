//go:build integration

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vctbuilder/internal/integrity/cache"
	"vctbuilder/internal/integrity/models"
	"vctbuilder/pkg/platform/sentinel"
	"vctbuilder/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Second)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTripAndExpiry() {
	ctx := context.Background()
	url := "https://example.com/schema.json"

	_, err := s.cache.Get(ctx, url)
	s.ErrorIs(err, sentinel.ErrNotFound)

	res := &models.HashResult{URL: url, Hash: "sha256-abc", Size: 10, ContentType: "application/json"}
	s.Require().NoError(s.cache.Set(ctx, url, res))

	got, err := s.cache.Get(ctx, url)
	s.Require().NoError(err)
	s.Equal(res, got)

	ttl, err := s.redis.Client.TTL(ctx, cache.Key(url)).Result()
	s.Require().NoError(err)
	s.Positive(ttl)

	s.Eventually(func() bool {
		_, err := s.cache.Get(ctx, url)
		return errors.Is(err, sentinel.ErrNotFound)
	}, 3*time.Second, 100*time.Millisecond)
}

func (s *RedisCacheSuite) TestCorruptEntry() {
	ctx := context.Background()
	url := "https://example.com/bad.json"
	s.Require().NoError(s.redis.Client.Set(ctx, cache.Key(url), "{", time.Minute).Err())

	_, err := s.cache.Get(ctx, url)
	s.Error(err)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}
