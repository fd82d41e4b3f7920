package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"zestyy/internal/models"
	"zestyy/internal/repository"
	"zestyy/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLen = 50
	maxBioLen  = 500
)

type UserService struct {
	store      *repository.Store
	bcryptCost int
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// UpdateProfileInput lists the only fields a profile update may change.
// Nil means keep; an empty string clears optional fields.
type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Image    *string `json:"image"`
	Degree   *string `json:"degree"`
	Branch   *string `json:"branch"`
	Section  *int    `json:"section"`
	Hostel   *string `json:"hostel"`
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store, bcryptCost: bcrypt.DefaultCost}
}

// Register creates an account. Email and username are stored lowercase and
// must be unique regardless of case.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, username, email and password are required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, models.NewValidationError("Name is too long")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.store.Users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}
	if existing, err := s.store.Users.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials without revealing which one was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid email or password")

	user, err := s.store.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, invalid
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// FindByID returns nil when no user matches.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.FindByID(ctx, id)
}

// FindByEmail returns nil when no user matches.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.store.Users.FindByEmail(ctx, email)
}

// FindByUsername returns nil when no user matches.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.Users.FindByUsername(ctx, username)
}

// UpdateProfile applies the set fields of in. Degree and branch are stored uppercase.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.User, error) {
	updates := make(map[string]interface{})

	if in.Name != nil {
		name, err := validateText("Name", *in.Name, maxNameLen)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if utf8.RuneCountInString(bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		updates["bio"] = bio
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		updates["website"] = strings.TrimSpace(*in.Website)
	}
	if in.Image != nil {
		updates["image"] = strings.TrimSpace(*in.Image)
	}
	if in.Degree != nil {
		updates["degree"] = upperOrNil(*in.Degree)
	}
	if in.Branch != nil {
		updates["branch"] = upperOrNil(*in.Branch)
	}
	if in.Section != nil {
		if *in.Section <= 0 {
			return nil, models.NewValidationError("Section must be a positive number")
		}
		updates["section"] = *in.Section
	}
	if in.Hostel != nil {
		updates["hostel"] = nonEmpty(in.Hostel)
	}

	if err := s.store.Users.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.store.Users.GetByID(ctx, id)
}

func upperOrNil(s string) *string {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return nil
	}
	return &v
}

// GetStats returns live post, follower and following counts.
func (s *UserService) GetStats(ctx context.Context, userID string) (models.UserStats, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return models.UserStats{}, err
	}
	return s.store.Users.GetStats(ctx, userID)
}

// FilterByAcademic returns users matching every set field of filter.
func (s *UserService) FilterByAcademic(ctx context.Context, filter models.AcademicFilter) ([]models.User, error) {
	if filter.Degree != nil {
		filter.Degree = upperOrNil(*filter.Degree)
	}
	if filter.Branch != nil {
		filter.Branch = upperOrNil(*filter.Branch)
	}
	filter.Hostel = nonEmpty(filter.Hostel)
	return s.store.Users.FilterByAcademic(ctx, filter)
}

// GetProfile returns the user named username with stats and whether viewerID follows them.
func (s *UserService) GetProfile(ctx context.Context, username, viewerID string) (*models.UserProfile, error) {
	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	stats, err := s.store.Users.GetStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{User: user, Stats: stats}
	if viewerID != "" && viewerID != user.ID {
		if profile.IsFollowing, err = s.store.Follows.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
