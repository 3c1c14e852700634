package memory

import (
	"cmp"
	"context"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var userSortKeys = sortKeys[domain.User]{
	"username":  func(a, b *domain.User) int { return cmp.Compare(a.Username, b.Username) },
	"email":     func(a, b *domain.User) int { return cmp.Compare(a.Email, b.Email) },
	"firstName": func(a, b *domain.User) int { return cmp.Compare(a.FirstName, b.FirstName) },
	"lastName":  func(a, b *domain.User) int { return cmp.Compare(a.LastName, b.LastName) },
	"createdAt": func(a, b *domain.User) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"weight":    func(a, b *domain.User) int { return comparePtrFloat(a.Weight, b.Weight) },
	"height":    func(a, b *domain.User) int { return comparePtrFloat(a.Height, b.Height) },
}

type userRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

// NewUserRepository constructs an empty in-memory UserRepository.
// Username and email are unique, like the unique indexes of the Mongo store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func cloneUser(u domain.User) domain.User {
	u.DateOfBirth = clonePtr(u.DateOfBirth)
	u.Height = clonePtr(u.Height)
	u.Weight = clonePtr(u.Weight)
	return u
}

// conflict returns the unique field already held by another user. Caller holds mu.
func (r *userRepository) conflict(u *domain.User) error {
	for id, existing := range r.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username {
			return &repository.DuplicateKeyError{Field: "username"}
		}
		if existing.Email == u.Email {
			return &repository.DuplicateKeyError{Field: "email"}
		}
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = primitive.NewObjectID()
	if err := r.conflict(user); err != nil {
		user.ID = primitive.NilObjectID
		return primitive.NilObjectID, err
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(*user)
	return user.ID, nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		u = cloneUser(u)
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) findOne(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(&u) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.conflict(user); err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *userRepository) Find(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) (repository.Page[domain.User], error) {
	r.mu.RLock()
	matches := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Username != "" && u.Username != filter.Username {
			continue
		}
		if filter.Email != "" && u.Email != filter.Email {
			continue
		}
		matches = append(matches, cloneUser(u))
	}
	r.mu.RUnlock()

	return sortAndWindow(matches, page, userSortKeys, func(u *domain.User) primitive.ObjectID { return u.ID }), nil
}
