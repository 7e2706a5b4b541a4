//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tasquest/pkg/testutil/containers"
)

type tokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type TRLIntegrationSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	postgres *containers.PostgresContainer
}

func TestTRLIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TRLIntegrationSuite))
}

func (s *TRLIntegrationSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.postgres = mgr.GetPostgres(s.T())
}

func (s *TRLIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	s.Require().NoError(s.postgres.TruncateTables(ctx, "token_revocations"))
}

func (s *TRLIntegrationSuite) TestRevokeThenCheck() {
	backends := map[string]tokenRevocationList{
		"redis":    NewRedisTRL(s.redis.Client),
		"postgres": NewPostgresTRL(s.postgres.DB),
	}
	for name, trl := range backends {
		s.Run(name, func() {
			ctx := context.Background()
			s.Require().NoError(trl.RevokeToken(ctx, name+"-jti", time.Minute))

			revoked, err := trl.IsRevoked(ctx, name+"-jti")
			s.Require().NoError(err)
			s.True(revoked)

			revoked, err = trl.IsRevoked(ctx, name+"-other")
			s.Require().NoError(err)
			s.False(revoked)
		})
	}
}

func (s *TRLIntegrationSuite) TestRedisKeyExpires() {
	ctx := context.Background()
	trl := NewRedisTRL(s.redis.Client)
	s.Require().NoError(trl.RevokeToken(ctx, "short", time.Second))

	ttl, err := s.redis.Client.TTL(ctx, revokedTokenKeyPrefix+"short").Result()
	s.Require().NoError(err)
	s.LessOrEqual(ttl, time.Second)
	s.Greater(ttl, time.Duration(0))
}
