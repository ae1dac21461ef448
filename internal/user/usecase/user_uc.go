package usecase

import (
	"context"

	"github.com/YamanTakala/Cars-Seller/internal/mailer"
	"github.com/YamanTakala/Cars-Seller/internal/user/domain"
	"go.uber.org/zap"
)

// PasswordHasher abstracts bcrypt so tests can assert flows without paying
// for real hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type UserUsecase struct {
	repo   domain.UserRepository
	hasher PasswordHasher
	mail   mailer.Mailer
	logger *zap.Logger
}

func NewUserUsecase(repo domain.UserRepository, hasher PasswordHasher, mail mailer.Mailer, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		hasher: hasher,
		mail:   mail,
		logger: logger.Named("UserUsecase"),
	}
}

// Register creates an account. The password pair is compared before any
// other validation and no user record exists until every check passes.
// Duplicate email surfaces as domain.ErrDuplicateEmail from the unique
// index.
func (uc *UserUsecase) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if reg.Password != reg.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        domain.NormalizeEmail(reg.Email),
		PasswordHash: hash,
		Phone:        reg.Phone,
		Location: domain.Location{
			City:    reg.City,
			Country: reg.Country,
		},
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("User registered", zap.String("userID", user.ID))

	// Best effort; the account exists whether or not the mail goes out.
	go func(email, firstName string) {
		if err := uc.mail.SendWelcomeEmail(email, firstName); err != nil {
			uc.logger.Warn("Failed to send welcome email", zap.Error(err))
		}
	}(user.Email, user.FirstName)

	return user, nil
}

// Login verifies credentials. A missing account and a wrong password are
// indistinguishable to the caller.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (uc *UserUsecase) Get(ctx context.Context, id string) (*domain.User, error) {
	return uc.repo.FindByID(ctx, id)
}

// UpdateProfile updates the self-service fields only; identity fields are
// untouchable through this path.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := uc.repo.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Profile updated", zap.String("userID", id))
	return user, nil
}
