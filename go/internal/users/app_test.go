package users

import (
	"context"
	"errors"
	"testing"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	users map[uuid.UUID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := models.User{ID: uuid.New(), Username: req.Username, Email: req.Email}
	f.users[user.ID] = user
	return &user, nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func TestCreateUserValidation(t *testing.T) {
	app := NewApp(newFakeUserStore())

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing username", CreateUserRequest{Email: "bars@calis.net"}},
		{"missing email", CreateUserRequest{Username: "bar_athlete"}},
		{"malformed email", CreateUserRequest{Username: "bar_athlete", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.CreateUser(context.Background(), tt.req); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	app := NewApp(store)
	ctx := context.Background()

	req := CreateUserRequest{Username: "bar_athlete", Email: "bars@calis.net"}
	if _, err := app.CreateUser(ctx, req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	req.Email = "other@calis.net"
	if _, err := app.CreateUser(ctx, req); err == nil {
		t.Fatal("expected duplicate username error, got nil")
	}
	if len(store.users) != 1 {
		t.Fatalf("user count = %d, want 1", len(store.users))
	}
}

func TestGetUserMissing(t *testing.T) {
	app := NewApp(newFakeUserStore())

	_, err := app.GetUser(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("get error = %v, want ErrNotFound", err)
	}
}

func TestUsernamesFor(t *testing.T) {
	store := newFakeUserStore()
	app := NewApp(store)
	ctx := context.Background()

	alice, err := app.CreateUser(ctx, CreateUserRequest{Username: "alice", Email: "alice@calis.net"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	bob, err := app.CreateUser(ctx, CreateUserRequest{Username: "bob", Email: "bob@calis.net"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ghost := uuid.New()

	usernames, err := app.UsernamesFor(ctx, []uuid.UUID{alice.ID, bob.ID, ghost})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Ids without an account are simply absent from the map.
	want := map[uuid.UUID]string{alice.ID: "alice", bob.ID: "bob"}
	if diff := cmp.Diff(want, usernames); diff != "" {
		t.Fatalf("usernames mismatch (-want +got):\n%s", diff)
	}
}

func TestUsernamesForEmpty(t *testing.T) {
	app := NewApp(newFakeUserStore())

	usernames, err := app.UsernamesFor(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(usernames) != 0 {
		t.Fatalf("usernames = %v, want empty map", usernames)
	}
}
