package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/logger"
	"couponhub-backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	userRepo          domain.UserRepository
	storeRepo         domain.StoreRepository
	txManager         domain.TransactionManager
	accessTokenExpiry time.Duration
}

func NewAuthUsecase(userRepo domain.UserRepository, storeRepo domain.StoreRepository, txManager domain.TransactionManager, accessTokenExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:          userRepo,
		storeRepo:         storeRepo,
		txManager:         txManager,
		accessTokenExpiry: accessTokenExpiry,
	}
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	StoreName string `json:"storeName"`
}

func (in *SignupInput) validate() ValidationErrors {
	errs := ValidationErrors{}
	in.Email = strings.TrimSpace(in.Email)
	in.StoreName = strings.TrimSpace(in.StoreName)

	if in.Email == "" {
		errs["email"] = "Email is required."
	} else if !strings.Contains(in.Email, "@") || len(in.Email) > 254 {
		errs["email"] = "Enter a valid email address."
	}
	if len(in.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if in.StoreName == "" {
		errs["storeName"] = "Store name is required."
	} else if utf8.RuneCountInString(in.StoreName) > 255 {
		errs["storeName"] = "Store name must be 255 characters or less."
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Signup registers an owner account and its store atomically. A user row
// without a store is never observable, even if the process dies mid-way.
func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (string, *domain.User, error) {
	if errs := in.validate(); errs != nil {
		return "", nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		ID:       uuid.New().String(),
		Email:    strings.ToLower(in.Email),
		UserName: utils.DeriveUserName(in.Email),
	}
	var store domain.Store

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user, string(hash)); err != nil {
			return err
		}
		store = domain.Store{UserID: user.ID, StoreName: in.StoreName}
		return u.storeRepo.Create(txCtx, &store)
	})
	if err != nil {
		return "", nil, err
	}

	logger.WithContext(ctx).Info().Str("user_id", user.ID).Int64("store_id", store.ID).Msg("Owner registered")

	token, err := utils.GenerateJWT(user.ID, user.Email, store.ID, u.accessTokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	storeID, err := u.storeRepo.GetStoreIDForUser(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, storeID, u.accessTokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (u *AuthUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
