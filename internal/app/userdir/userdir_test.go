package userdir

import (
	"context"
	"errors"
	"testing"
	"time"

	"finishline/internal/app/ds"
	"finishline/internal/app/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUser(ctx context.Context, id uint) (*ds.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*ds.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestFullNameWithoutCache(t *testing.T) {
	users := new(mockUsers)
	users.On("GetUser", mock.Anything, uint(5)).Return(&ds.User{UserID: 5, FirstName: "Ada", LastName: "Lovelace"}, nil)

	name, err := New(users, nil, time.Minute).FullName(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
	users.AssertExpectations(t)
}

func TestFullNameCachesInRedis(t *testing.T) {
	s := miniredis.RunT(t)
	cache := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))

	users := new(mockUsers)
	users.On("GetUser", mock.Anything, uint(5)).
		Return(&ds.User{UserID: 5, FirstName: "Ada", LastName: "Lovelace"}, nil).
		Once()

	dir := New(users, cache, time.Minute)
	for i := 0; i < 3; i++ {
		name, err := dir.FullName(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", name)
	}

	users.AssertNumberOfCalls(t, "GetUser", 1)
}

func TestFullNameCacheDownFallsBack(t *testing.T) {
	s := miniredis.RunT(t)
	cache := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	s.Close()

	users := new(mockUsers)
	users.On("GetUser", mock.Anything, uint(5)).Return(&ds.User{FirstName: "Ada", LastName: "Lovelace"}, nil)

	name, err := New(users, cache, time.Minute).FullName(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
}

func TestFullNameUnknownUser(t *testing.T) {
	missing := errors.New("record not found")
	users := new(mockUsers)
	users.On("GetUser", mock.Anything, uint(9)).Return(nil, missing)

	_, err := New(users, nil, time.Minute).FullName(context.Background(), 9)
	require.ErrorIs(t, err, missing)
}
