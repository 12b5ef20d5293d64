package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user/entity"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// AccountStore is the backend contract the service needs. The concrete
// implementation keeps raw sentinel conventions; this layer classifies them.
type AccountStore interface {
	Register(ctx context.Context, username, email, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
}

var (
	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

// UserService wraps the account backend operations and maps their sentinel
// results onto unambiguous errors.
type UserService struct {
	store  AccountStore
	hasher PasswordHasher
}

func NewUserService(store AccountStore, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &UserService{store: store, hasher: hasher}
}

// Register creates an account and returns its id.
// Backend mapping: a zero id from the insert means the username or email is
// taken -> ErrUserExists; any store error is an operation failure passed up.
func (s *UserService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	id, err := s.store.Register(ctx, username, email, hash)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, ErrUserExists
	}
	return id, nil
}

// Login authenticates a username/password pair and returns the account id.
// Backend mapping: sql.ErrNoRows and a hash mismatch both collapse into
// ErrBadCredentials to avoid user enumeration; any other store error is an
// operation failure passed up. The backend is called at most once.
func (s *UserService) Login(ctx context.Context, username, password string) (int64, error) {
	acct, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBadCredentials
		}
		return 0, err
	}
	if !s.hasher.Verify(acct.PasswordHash, password) {
		return 0, ErrBadCredentials
	}
	return acct.ID, nil
}
