package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// RedisStoreSuite drives the redis backend against a command mock.
// The store is built with a zero lifetime so Set expectations carry a
// deterministic expiration.
type RedisStoreSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	store Store
	ctx   context.Context
}

func (s *RedisStoreSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.store = newRedisStore(db, "test:", 0, nil)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RedisStoreSuite) TestGetHit() {
	s.mock.ExpectGet("test:k1").SetVal(`{"name":"aspirin","score":0.42}`)

	var out payload
	s.Require().NoError(s.store.Get(s.ctx, "k1", &out))
	s.Equal("aspirin", out.Name)
	s.Equal(0.42, out.Score)
}

func (s *RedisStoreSuite) TestGetMiss() {
	s.mock.ExpectGet("test:k1").RedisNil()

	var out payload
	s.ErrorIs(s.store.Get(s.ctx, "k1", &out), ErrCacheMiss)
}

func (s *RedisStoreSuite) TestGetBackendError() {
	s.mock.ExpectGet("test:k1").SetErr(errors.New("connection reset"))

	var out payload
	err := s.store.Get(s.ctx, "k1", &out)
	s.Require().Error(err)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeCacheError))
}

func (s *RedisStoreSuite) TestSet() {
	in := payload{Name: "aspirin", Score: 0.42}
	data, err := json.Marshal(in)
	s.Require().NoError(err)

	s.mock.ExpectSet("test:k1", data, 0).SetVal("OK")
	s.NoError(s.store.Set(s.ctx, "k1", in))
}

func (s *RedisStoreSuite) TestSetUnserializable() {
	s.ErrorIs(s.store.Set(s.ctx, "k1", make(chan int)), ErrSerializationFailed)
}

func (s *RedisStoreSuite) TestDelete() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)
	s.NoError(s.store.Delete(s.ctx, "k1", "k2"))
}

func (s *RedisStoreSuite) TestDeleteNothing() {
	s.NoError(s.store.Delete(s.ctx))
}

func (s *RedisStoreSuite) TestPing() {
	s.mock.ExpectPing().SetVal("PONG")
	s.NoError(s.store.Ping(s.ctx))
}

func (s *RedisStoreSuite) TestPingFailure() {
	s.mock.ExpectPing().SetErr(errors.New("unreachable"))

	err := s.store.Ping(s.ctx)
	s.Require().Error(err)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable))
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}
