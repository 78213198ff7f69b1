package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/librarypal/user-service/internal/domain/entity"
	repo "github.com/librarypal/user-service/internal/domain/repository"
	"github.com/librarypal/user-service/pkg/helpers"
)

// --- helpers ---

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []*entity.User
}

func (m *memoryRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Username == u.Username {
			return repo.ErrDuplicateUsername
		}
	}
	for _, e := range m.users {
		if e.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memoryRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.User, 0, len(m.users))
	for _, e := range m.users {
		out = append(out, *e)
	}
	return out, nil
}

var _ repo.UserRepository = (*memoryRepo)(nil)

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	r := &memoryRepo{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("test-secret", 720*time.Hour)
	return NewService(r, jwt, nil, logger), r
}

// --- signup ---

func TestSignUp_Success(t *testing.T) {
	t.Parallel()
	svc, r := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	u, err := r.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if u.Password == "pw1" {
		t.Fatal("password stored in plain text")
	}
	if !helpers.CheckPassword(u.Password, "pw1") {
		t.Fatal("stored hash does not verify against password")
	}
}

func TestSignUp_UsernameTaken(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "bob", "b@x.com", "pw2"); err != nil {
		t.Fatalf("first SignUp error: %v", err)
	}
	err := svc.SignUp(ctx, "bob", "other@x.com", "pw3")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "bob", "b@x.com", "pw2"); err != nil {
		t.Fatalf("first SignUp error: %v", err)
	}
	err := svc.SignUp(ctx, "bob2", "b@x.com", "pw3")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignUp_BothConflict_UsernameWins(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "carol", "c@x.com", "pw"); err != nil {
		t.Fatalf("first SignUp error: %v", err)
	}
	err := svc.SignUp(ctx, "carol", "c@x.com", "pw")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("username conflict must win when both conflict, got %v", err)
	}
}

// raceRepo simulates losing the check-then-insert race: lookups see nothing,
// the insert hits the uniqueness constraint.
type raceRepo struct {
	memoryRepo
	createErr error
}

func (r *raceRepo) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r *raceRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r *raceRepo) Create(context.Context, *entity.User) error { return r.createErr }

func TestSignUp_RaceOnInsert(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	cases := []struct {
		insertErr error
		want      error
	}{
		{repo.ErrDuplicateUsername, ErrUsernameTaken},
		{repo.ErrDuplicateEmail, ErrEmailTaken},
	}
	for _, tc := range cases {
		svc := NewService(&raceRepo{createErr: tc.insertErr}, jwt, nil, logger)
		err := svc.SignUp(context.Background(), "dave", "d@x.com", "pw")
		if !errors.Is(err, tc.want) {
			t.Fatalf("insert error %v: expected %v, got %v", tc.insertErr, tc.want, err)
		}
	}
}

// --- login ---

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	res, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.ID == 0 || res.Token == "" {
		t.Fatalf("incomplete login result: %+v", res)
	}

	claims, err := svc.JWT.Parse(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Username() != "alice" {
		t.Fatalf("token subject mismatch: got %q", claims.Username())
	}
}

func TestLogin_FailuresCollapse(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	_, wrongPwErr := svc.Login(ctx, "alice", "nope")
	_, unknownErr := svc.Login(ctx, "nobody", "pw1")

	if !errors.Is(wrongPwErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPwErr)
	}
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	// Both failure causes must be indistinguishable to callers.
	if wrongPwErr.Error() != unknownErr.Error() {
		t.Fatalf("errors differ: %q vs %q", wrongPwErr, unknownErr)
	}
}

// --- lookups ---

func TestGetUserInfo(t *testing.T) {
	t.Parallel()
	svc, r := newTestService(t)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	u, err := r.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}

	info, err := svc.GetUserInfo(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserInfo error: %v", err)
	}
	if info.ID != u.ID || info.Username != "alice" || info.Email != "a@x.com" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := svc.GetUserInfo(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsers_InsertionOrder(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, n := range []string{"u1", "u2", "u3"} {
		if err := svc.SignUp(ctx, n, n+"@x.com", "pw"); err != nil {
			t.Fatalf("SignUp %s error: %v", n, err)
		}
	}

	infos, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 users, got %d", len(infos))
	}
	for i, want := range []string{"u1", "u2", "u3"} {
		if infos[i].Username != want {
			t.Fatalf("position %d: got %q want %q", i, infos[i].Username, want)
		}
	}
}
