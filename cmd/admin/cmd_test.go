package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/internship-api/internal/models"
)

type userStoreStub struct {
	users     map[string]*models.User
	created   []*models.User
	createErr error
	roles     map[string]models.UserRole
}

func (s *userStoreStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreStub) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *userStoreStub) Create(_ context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = "user-new"
	s.created = append(s.created, user)
	return nil
}

func (s *userStoreStub) UpdateRole(_ context.Context, id string, role models.UserRole) error {
	if s.roles == nil {
		s.roles = map[string]models.UserRole{}
	}
	s.roles[id] = role
	return nil
}

type tokenIssuerStub struct{}

func (tokenIssuerStub) IssueToken(user *models.User) (string, time.Time, error) {
	return "token-for-" + user.ID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func newTestCLI(store *userStoreStub) (*commandLine, *bytes.Buffer, *[]string) {
	out := &bytes.Buffer{}
	var migrated []string
	cli := &commandLine{
		users:  store,
		tokens: tokenIssuerStub{},
		migrate: func(_ context.Context, command string, args ...string) error {
			migrated = append(append(migrated, command), args...)
			return nil
		},
		out: out,
	}
	return cli, out, &migrated
}

func stubPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestRunPrintsUsage(t *testing.T) {
	for _, args := range [][]string{{"admin"}, {"admin", "bogus"}} {
		cli, out, _ := newTestCLI(&userStoreStub{})
		err := cli.run(context.Background(), args)
		assert.ErrorIs(t, err, errHelp)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestAddUser(t *testing.T) {
	stubPassword(t, "s3cret-pass", nil)
	store := &userStoreStub{}
	cli, out, _ := newTestCLI(store)

	err := cli.run(context.Background(), []string{"admin", "adduser", "-email", " Sup@Example.com ", "-name", "Dr. Sup", "-role", "supervisor", "-nidn", "0011"})
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	u := store.created[0]
	assert.Equal(t, "sup@example.com", u.Email)
	assert.Equal(t, models.RoleSupervisor, u.Role)
	assert.Contains(t, u.ExternalID, "local:")
	require.NotNil(t, u.NIDN)
	assert.Equal(t, "0011", *u.NIDN)
	require.NotNil(t, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("s3cret-pass")))
	assert.Contains(t, out.String(), "created supervisor sup@example.com")
}

func TestAddUserFailures(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		cli, _, _ := newTestCLI(&userStoreStub{})
		err := cli.run(context.Background(), []string{"admin", "adduser"})
		assert.ErrorIs(t, err, errHelp)
	})
	t.Run("unknown role", func(t *testing.T) {
		cli, _, _ := newTestCLI(&userStoreStub{})
		err := cli.run(context.Background(), []string{"admin", "adduser", "-email", "a@b.c", "-role", "janitor"})
		assert.EqualError(t, err, `unknown role "janitor"`)
	})
	t.Run("empty password", func(t *testing.T) {
		stubPassword(t, "", nil)
		cli, _, _ := newTestCLI(&userStoreStub{})
		err := cli.run(context.Background(), []string{"admin", "adduser", "-email", "a@b.c"})
		assert.ErrorIs(t, err, errHelp)
	})
	t.Run("password read error", func(t *testing.T) {
		stubPassword(t, "", errors.New("not a terminal"))
		cli, _, _ := newTestCLI(&userStoreStub{})
		err := cli.run(context.Background(), []string{"admin", "adduser", "-email", "a@b.c"})
		assert.EqualError(t, err, "not a terminal")
	})
	t.Run("duplicate email", func(t *testing.T) {
		stubPassword(t, "pwd", nil)
		cli, _, _ := newTestCLI(&userStoreStub{createErr: &pq.Error{Code: "23505"}})
		err := cli.run(context.Background(), []string{"admin", "adduser", "-email", "a@b.c"})
		assert.EqualError(t, err, "a user with email a@b.c already exists")
	})
}

func TestRoleListAndToken(t *testing.T) {
	store := &userStoreStub{users: map[string]*models.User{
		"sup@example.com": {ID: "u-1", Email: "sup@example.com", FullName: "Dr. Sup", Role: models.RoleSupervisor},
	}}
	cli, out, _ := newTestCLI(store)
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"admin", "list", "-role", "supervisor"}))
	assert.Contains(t, out.String(), "u-1")
	assert.Contains(t, out.String(), "Dr. Sup")

	require.NoError(t, cli.run(ctx, []string{"admin", "role", "-email", "SUP@example.com", "-role", "admin"}))
	assert.Equal(t, models.RoleAdmin, store.roles["u-1"])

	require.NoError(t, cli.run(ctx, []string{"admin", "token", "-email", "sup@example.com"}))
	assert.Contains(t, out.String(), "token-for-u-1")
	assert.Contains(t, out.String(), "expires 2026-01-01T00:00:00Z")

	err := cli.run(ctx, []string{"admin", "token", "-email", "ghost@example.com"})
	assert.EqualError(t, err, "no user with email ghost@example.com")

	err = cli.run(ctx, []string{"admin", "token"})
	assert.EqualError(t, err, "-email is required")
}

func TestMigrateDefaultsToUp(t *testing.T) {
	cli, _, migrated := newTestCLI(&userStoreStub{})
	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate"}))
	assert.Equal(t, []string{"up"}, *migrated)

	cli, _, migrated = newTestCLI(&userStoreStub{})
	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate", "down-to", "0"}))
	assert.Equal(t, []string{"down-to", "0"}, *migrated)
}
