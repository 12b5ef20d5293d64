package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user/entity"
)

// fakeAccountStore mimics the backend sentinel conventions: zero id on
// duplicate, sql.ErrNoRows on missing rows.
type fakeAccountStore struct {
	accounts      map[string]*entity.Account
	nextID        int64
	registerCalls int
	failWith      error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*entity.Account{}, nextID: 1}
}

func (f *fakeAccountStore) Register(ctx context.Context, username, email, passwordHash string) (int64, error) {
	f.registerCalls++
	if f.failWith != nil {
		return 0, f.failWith
	}
	if _, ok := f.accounts[username]; ok {
		return 0, nil
	}
	id := f.nextID
	f.nextID++
	f.accounts[username] = &entity.Account{ID: id, Username: username, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeAccountStore) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	acct, ok := f.accounts[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return acct, nil
}

func newTestService(store AccountStore) *UserService {
	return NewUserService(store, BcryptHasher{Cost: bcrypt.MinCost})
}

func TestUserService_Register(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestService(store)

	id, err := svc.Register(context.Background(), "alice1", "Alice1@Test.com", "password")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero account id")
	}
	if got := store.accounts["alice1"].Email; got != "alice1@test.com" {
		t.Errorf("email = %q, want normalized lowercase", got)
	}
	if store.accounts["alice1"].PasswordHash == "password" {
		t.Error("password stored unhashed")
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestService(store)

	if _, err := svc.Register(context.Background(), "alice1", "alice1@test.com", "password"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "alice1", "other@test.com", "password")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists (zero-id sentinel classified)", err)
	}
	if store.registerCalls != 2 {
		t.Errorf("register calls = %d, want 2 (no retries)", store.registerCalls)
	}
}

func TestUserService_RegisterStoreFailure(t *testing.T) {
	store := newFakeAccountStore()
	store.failWith = errors.New("connection refused")
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), "alice1", "alice1@test.com", "password")
	if err == nil || errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want raw operation failure", err)
	}
}

func TestUserService_Login(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestService(store)

	registeredID, err := svc.Register(context.Background(), "alice1", "alice1@test.com", "password")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		id, err := svc.Login(context.Background(), "alice1", "password")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if id != registeredID {
			t.Errorf("id = %d, want %d", id, registeredID)
		}
	})

	t.Run("unknown user and wrong password are the same error", func(t *testing.T) {
		_, errUnknown := svc.Login(context.Background(), "nobody", "password")
		_, errWrongPw := svc.Login(context.Background(), "alice1", "wrong-password")
		if !errors.Is(errUnknown, ErrBadCredentials) || !errors.Is(errWrongPw, ErrBadCredentials) {
			t.Fatalf("errs = %v / %v, want ErrBadCredentials for both", errUnknown, errWrongPw)
		}
	})
}
