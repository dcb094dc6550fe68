package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRevocationList struct {
	mock.Mock
}

func (m *MockRevocationList) Add(ctx context.Context, token string, expiresAt, now time.Time) error {
	args := m.Called(ctx, token, expiresAt, now)
	return args.Error(0)
}

func (m *MockRevocationList) Contains(ctx context.Context, token string, now time.Time) (bool, error) {
	args := m.Called(ctx, token, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationList) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestCronService_PurgeRevokedTokens(t *testing.T) {
	list := new(MockRevocationList)
	list.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()
	list.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), errors.New("db down")).Once()

	svc, err := NewCronService(NewRevocationService(list), "@hourly")
	require.NoError(t, err)

	svc.PurgeRevokedTokens()
	svc.PurgeRevokedTokens()

	list.AssertNumberOfCalls(t, "DeleteExpired", 2)
}

func TestCronService_InvalidSchedule(t *testing.T) {
	_, err := NewCronService(NewRevocationService(new(MockRevocationList)), "every tuesday")
	assert.Error(t, err)
}

func TestCronService_StartStop(t *testing.T) {
	svc, err := NewCronService(NewRevocationService(new(MockRevocationList)), "@daily")
	require.NoError(t, err)

	svc.Start()
	svc.Stop()
}

func TestRevocationService_Revoke(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	token, expiresAt, err := env.tokens.Issue("user-1")
	require.NoError(t, err)

	list := new(MockRevocationList)
	list.On("Add", ctx, token, mock.MatchedBy(func(exp time.Time) bool {
		return exp.Unix() == expiresAt.Unix()
	}), env.now).Return(nil).Once()

	svc := NewRevocationService(list)
	svc.now = func() time.Time { return env.now }
	require.NoError(t, svc.Revoke(ctx, token))
	require.NoError(t, svc.Revoke(ctx, "garbage"))

	list.AssertExpectations(t)
}
