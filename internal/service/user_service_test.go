package service

import (
	"context"
	"testing"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Find(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) (repository.Page[domain.User], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(repository.Page[domain.User]), args.Error(1)
}

func plainCredentials(t *testing.T) CredentialPolicy {
	t.Helper()
	p, err := NewCredentialPolicy(PasswordStoragePlaintext)
	require.NoError(t, err)
	return p
}

func validUserInput(username, email string) CreateUserInput {
	return CreateUserInput{Username: username, Email: email, Password: "secret1"}
}

func TestUserService_CreateUser(t *testing.T) {
	existing := &domain.User{ID: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name        string
		setupMock   func(*MockUserRepository)
		input       CreateUserInput
		wantErr     error
		wantMessage string
	}{
		{
			name: "success",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "bob").Return(nil, repository.ErrNotFound)
				m.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
					return u.Username == "bob" && u.Role == domain.RoleUser
				})).Return(primitive.NewObjectID(), nil)
			},
			input: validUserInput("bob", "bob@example.com"),
		},
		{
			name: "duplicate username",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "alice").Return(existing, nil)
			},
			input:       validUserInput("alice", "other@example.com"),
			wantErr:     ErrConflict,
			wantMessage: "Username already exists",
		},
		{
			name: "duplicate email",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "carol").Return(nil, repository.ErrNotFound)
				m.On("GetByEmail", mock.Anything, "alice@example.com").Return(existing, nil)
			},
			input:       validUserInput("carol", "alice@example.com"),
			wantErr:     ErrConflict,
			wantMessage: "Email already exists",
		},
		{
			name: "lost race to unique index",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "dave").Return(nil, repository.ErrNotFound)
				m.On("GetByEmail", mock.Anything, "dave@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.Anything).
					Return(primitive.NilObjectID, &repository.DuplicateKeyError{Field: "username"})
			},
			input:       validUserInput("dave", "dave@example.com"),
			wantErr:     ErrConflict,
			wantMessage: "Username already exists",
		},
		{
			name:      "invalid email",
			setupMock: func(m *MockUserRepository) {},
			input:     validUserInput("erin", "not-an-email"),
			wantErr:   ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := NewUserService(repo, plainCredentials(t), DefaultPaging)

			user, err := svc.CreateUser(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				if tt.wantMessage != "" {
					assert.EqualError(t, err, tt.wantMessage)
				}
			} else {
				require.NoError(t, err)
				assert.False(t, user.ID.IsZero())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateUserHashesPassword(t *testing.T) {
	bcryptPolicy, err := NewCredentialPolicy("")
	require.NoError(t, err)
	repo := memory.NewUserRepository()
	svc := NewUserService(repo, bcryptPolicy, DefaultPaging)

	user, err := svc.CreateUser(context.Background(), validUserInput("frank", "frank@example.com"))
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, bcryptPolicy.Matches(stored.PasswordHash, "secret1"))
}

func TestUserService_ValidationFieldNames(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), plainCredentials(t), DefaultPaging)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "ab", Email: "x@example.com"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "password")
	assert.NotContains(t, verr.Fields, "email")
}

func TestUserService_UpdateUserUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(), plainCredentials(t), DefaultPaging)

	alice, err := svc.CreateUser(ctx, validUserInput("alice", "alice@example.com"))
	require.NoError(t, err)
	bob, err := svc.CreateUser(ctx, validUserInput("bob", "bob@example.com"))
	require.NoError(t, err)

	taken := "alice"
	_, err = svc.UpdateUser(ctx, bob.ID, UpdateUserInput{Username: &taken})
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "Username already exists")

	takenEmail := "alice@example.com"
	_, err = svc.UpdateUser(ctx, bob.ID, UpdateUserInput{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "Email already exists")

	// Re-submitting the caller's own values is not a conflict.
	same := "alice"
	firstName := "Alice"
	updated, err := svc.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: &same, FirstName: &firstName})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)

	_, err = svc.UpdateUser(ctx, primitive.NewObjectID(), UpdateUserInput{FirstName: &firstName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_ListUsersPage(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(), plainCredentials(t), Paging{DefaultSize: 2, MaxSize: 3})
	for _, name := range []string{"carol", "alice", "bob", "dave"} {
		_, err := svc.CreateUser(ctx, validUserInput(name, name+"@example.com"))
		require.NoError(t, err)
	}

	page, err := svc.ListUsersPage(ctx, PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alice", page.Items[0].Username)
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.ListUsersPage(ctx, PageQuery{Size: 50, SortBy: "username", Direction: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Size)
	assert.Equal(t, "dave", page.Items[0].Username)

	page, err = svc.ListUsersPage(ctx, PageQuery{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.ListUsersPage(ctx, PageQuery{SortBy: "password"})
	assert.ErrorIs(t, err, ErrValidation)
}
