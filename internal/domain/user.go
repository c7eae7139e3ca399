package domain

import (
	"context"
	"time"
)

type ContextKey string

const UserContextKey ContextKey = "user"

type User struct {
	ID        string    `json:"id"` // UUID
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthUser is the request-scoped identity extracted from the access
// token. StoreID rides along so handlers can scope queries without a
// directory lookup per request.
type AuthUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	StoreID int64  `json:"storeId"`
}

// Store is the tenant. Exactly one store exists per user.
type Store struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	StoreName string    `json:"storeName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	GetStoreIDForUser(ctx context.Context, userID string) (int64, error)
	GetStoreName(ctx context.Context, storeID int64) (string, error)
}
