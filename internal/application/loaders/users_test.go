package loaders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profplay/isbasi/backend/internal/application/loaders"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, name, bio *string) error {
	return m.Called(ctx, id, name, bio).Error(0)
}

func TestUserLoader_LoadMap(t *testing.T) {
	t.Run("batches distinct ids into one lookup", func(t *testing.T) {
		repo := new(MockUserRepository)
		u1 := &entities.User{ID: "u-1"}
		u2 := &entities.User{ID: "u-2"}
		repo.On("GetByIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
			return assert.ObjectsAreEqual(2, len(ids))
		})).Return([]*entities.User{u2, u1}, nil).Once()

		loader := loaders.NewUserLoader(repo)
		users, err := loader.LoadMap(context.Background(), []string{"u-1", "u-2", "u-1", ""})

		require.NoError(t, err)
		assert.Equal(t, map[string]*entities.User{"u-1": u1, "u-2": u2}, users)
		repo.AssertExpectations(t)
	})

	t.Run("omits unknown ids", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByIDs", mock.Anything, []string{"ghost"}).Return([]*entities.User{}, nil)

		users, err := loaders.NewUserLoader(repo).LoadMap(context.Background(), []string{"ghost"})

		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("propagates backend failures", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByIDs", mock.Anything, []string{"u-1"}).Return(nil, errors.New("db down"))

		users, err := loaders.NewUserLoader(repo).LoadMap(context.Background(), []string{"u-1"})

		assert.Nil(t, users)
		assert.EqualError(t, err, "db down")
	})

	t.Run("skips the backend for an empty set", func(t *testing.T) {
		repo := new(MockUserRepository)

		users, err := loaders.NewUserLoader(repo).LoadMap(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, users)
		repo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})
}
