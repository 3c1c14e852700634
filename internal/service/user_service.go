package service

import (
	"context"
	"errors"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var userSortFields = sortFields{
	"id":        "_id",
	"username":  "username",
	"email":     "email",
	"firstName": "firstName",
	"lastName":  "lastName",
	"createdAt": "createdAt",
	"height":    "height",
	"weight":    "weight",
}

// CreateUserInput carries a new account. Role defaults to "user".
type CreateUserInput struct {
	Username    string      `json:"username" validate:"required,min=3,max=50"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6"`
	Role        domain.Role `json:"role" validate:"omitempty,oneof=user admin"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth *DateTime   `json:"dateOfBirth"`
	Height      *float64    `json:"height" validate:"omitempty,gt=0"`
	Weight      *float64    `json:"weight" validate:"omitempty,gt=0"`
	FitnessGoal string      `json:"fitnessGoal"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
// A non-empty Password replaces the stored credential.
type UpdateUserInput struct {
	Username    *string      `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string      `json:"email" validate:"omitempty,email"`
	Password    *string      `json:"password" validate:"omitempty,min=6"`
	Role        *domain.Role `json:"role" validate:"omitempty,oneof=user admin"`
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	DateOfBirth *DateTime    `json:"dateOfBirth"`
	Height      *float64     `json:"height" validate:"omitempty,gt=0"`
	Weight      *float64     `json:"weight" validate:"omitempty,gt=0"`
	FitnessGoal *string      `json:"fitnessGoal"`
}

// UserService manages accounts and enforces username and email uniqueness.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersPage(ctx context.Context, q PageQuery) (repository.Page[domain.User], error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// userService implements the UserService interface.
type userService struct {
	userRepo    repository.UserRepository
	credentials CredentialPolicy
	paging      Paging
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, credentials CredentialPolicy, paging Paging) UserService {
	return &userService{
		userRepo:    userRepo,
		credentials: credentials,
		paging:      paging,
	}
}

// CreateUser registers a new account.
//
// Uniqueness is checked before the insert and enforced again by the store:
// two concurrent creates with the same username can both pass the check, and
// the loser is turned away by the store's unique constraint with the same
// ConflictError.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, primitive.NilObjectID, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.credentials.Hash(in.Password)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth.timePtr(),
		Height:       in.Height,
		Weight:       in.Weight,
		FitnessGoal:  in.FitnessGoal,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, conflictFromStore(err)
	}
	user.ID = id
	return user, nil
}

// ensureUnique rejects username or email values held by a user other than self.
func (s *userService) ensureUnique(ctx context.Context, self primitive.ObjectID, username, email string) error {
	if username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != self:
			return &ConflictError{Field: "username", Message: "Username already exists"}
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != self:
			return &ConflictError{Field: "email", Message: "Email already exists"}
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	return nil
}

// conflictFromStore maps a unique constraint violation to a ConflictError.
func conflictFromStore(err error) error {
	var dup *repository.DuplicateKeyError
	if !errors.As(err, &dup) {
		return err
	}
	switch dup.Field {
	case "username":
		return &ConflictError{Field: "username", Message: "Username already exists"}
	case "email":
		return &ConflictError{Field: "email", Message: "Email already exists"}
	default:
		return &ConflictError{Field: dup.Field, Message: "Duplicate value"}
	}
}

func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User", "id", id.Hex())
	}
	return user, err
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User", "username", username)
	}
	return user, err
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User", "email", email)
	}
	return user, err
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	page, err := s.userRepo.Find(ctx, repository.UserFilter{}, repository.Unpaged("username"))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *userService) ListUsersPage(ctx context.Context, q PageQuery) (repository.Page[domain.User], error) {
	req, err := s.paging.request(q, userSortFields, "username")
	if err != nil {
		return repository.Page[domain.User]{}, err
	}
	return s.userRepo.Find(ctx, repository.UserFilter{}, req)
}

// UpdateUser applies the non-nil fields of in. Changing username or email to
// a value held by another user fails with the same ConflictError as CreateUser.
func (s *userService) UpdateUser(ctx context.Context, id primitive.ObjectID, in UpdateUserInput) (*domain.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var checkUsername, checkEmail string
	if in.Username != nil && *in.Username != user.Username {
		checkUsername = *in.Username
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		checkEmail = *in.Email
		user.Email = *in.Email
	}
	if err := s.ensureUnique(ctx, user.ID, checkUsername, checkEmail); err != nil {
		return nil, err
	}

	if in.Password != nil && *in.Password != "" {
		hashed, err := s.credentials.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth.timePtr()
	}
	if in.Height != nil {
		user.Height = in.Height
	}
	if in.Weight != nil {
		user.Weight = in.Weight
	}
	if in.FitnessGoal != nil {
		user.FitnessGoal = *in.FitnessGoal
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User", "id", id.Hex())
		}
		return nil, conflictFromStore(err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("User", "id", id.Hex())
	}
	return err
}
