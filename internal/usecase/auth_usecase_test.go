package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthUsecase, *fakeUserRepo, *fakeStoreRepo) {
	t.Helper()
	utils.SetSecret("test-secret")
	userRepo := newFakeUserRepo()
	storeRepo := newFakeStoreRepo()
	uc := NewAuthUsecase(userRepo, storeRepo, &fakeTxManager{}, time.Hour)
	return uc, userRepo, storeRepo
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and their store together", func(t *testing.T) {
		uc, _, storeRepo := newAuthFixture(t)

		token, user, err := uc.Signup(ctx, SignupInput{
			Email:     "Owner@Example.com",
			Password:  "s3cret-enough",
			StoreName: "Corner Cafe",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.NotEmpty(t, user.UserName)

		storeID, err := storeRepo.GetStoreIDForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.NotZero(t, storeID)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)
		in := SignupInput{Email: "dup@example.com", Password: "s3cret-enough", StoreName: "A"}

		_, _, err := uc.Signup(ctx, in)
		require.NoError(t, err)

		_, _, err = uc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("multibyte store name is capped by characters, not bytes", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)

		_, _, err := uc.Signup(ctx, SignupInput{
			Email:     "owner@example.com",
			Password:  "s3cret-enough",
			StoreName: strings.Repeat("店", 255),
		})
		assert.NoError(t, err)
	})

	t.Run("validates the form", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)

		_, _, err := uc.Signup(ctx, SignupInput{Email: "not-an-email", Password: "short", StoreName: ""})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "email")
		assert.Contains(t, verrs, "password")
		assert.Contains(t, verrs, "storeName")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	signup := func(t *testing.T, uc *AuthUsecase) *domain.User {
		t.Helper()
		_, user, err := uc.Signup(ctx, SignupInput{
			Email:     "owner@example.com",
			Password:  "s3cret-enough",
			StoreName: "Corner Cafe",
		})
		require.NoError(t, err)
		return user
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)
		signup(t, uc)

		token, user, err := uc.Login(ctx, "  OWNER@example.com ", "s3cret-enough")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "owner@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)
		signup(t, uc)

		_, _, err := uc.Login(ctx, "owner@example.com", "wrong-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email looks like bad credentials", func(t *testing.T) {
		uc, _, _ := newAuthFixture(t)

		_, _, err := uc.Login(ctx, "nobody@example.com", "whatever-pass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
