package gateway

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/colonyops/portal/internal/core/permission"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func newTestGateway(t *testing.T) *Client {
	t.Helper()

	srv := NewServer([]User{
		{
			Username:     "admin",
			PasswordHash: hash(t, "secret"),
			Permissions: []permission.Grant{
				{ObjectType: permission.TypeSystem, Action: permission.ActionAdminister},
			},
		},
		{
			Username:     "bob",
			PasswordHash: hash(t, "hunter2"),
			Permissions: []permission.Grant{
				{ObjectType: permission.TypeConnection, ObjectID: "12", Action: permission.ActionUpdate},
			},
		},
		{
			Username:     "carol",
			PasswordHash: hash(t, "pw"),
		},
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestClient_Health(t *testing.T) {
	c := newTestGateway(t)
	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_CreateToken(t *testing.T) {
	c := newTestGateway(t)
	ctx := context.Background()

	tok, err := c.CreateToken(ctx, "bob", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bob", tok.Username)
	assert.NotEmpty(t, tok.AuthToken)

	_, err = c.CreateToken(ctx, "bob", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.CreateToken(ctx, "nobody", "hunter2")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Permissions(t *testing.T) {
	c := newTestGateway(t)
	ctx := context.Background()

	bob, err := c.CreateToken(ctx, "bob", "hunter2")
	require.NoError(t, err)
	admin, err := c.CreateToken(ctx, "admin", "secret")
	require.NoError(t, err)

	t.Run("own permissions", func(t *testing.T) {
		set, err := c.Permissions(ctx, bob.AuthToken, "bob")
		require.NoError(t, err)
		require.Len(t, set.Grants, 1)
		assert.Equal(t, permission.ActionUpdate, set.Grants[0].Action)
		assert.Equal(t, "12", set.Grants[0].ObjectID)
	})

	t.Run("empty grants", func(t *testing.T) {
		carol, err := c.CreateToken(ctx, "carol", "pw")
		require.NoError(t, err)

		set, err := c.Permissions(ctx, carol.AuthToken, "carol")
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("other user forbidden", func(t *testing.T) {
		_, err := c.Permissions(ctx, bob.AuthToken, "admin")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("admin reads any user", func(t *testing.T) {
		set, err := c.Permissions(ctx, admin.AuthToken, "bob")
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := c.Permissions(ctx, admin.AuthToken, "zed")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := c.Permissions(ctx, "not-a-token", "bob")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestClient_RevokeToken(t *testing.T) {
	c := newTestGateway(t)
	ctx := context.Background()

	tok, err := c.CreateToken(ctx, "bob", "hunter2")
	require.NoError(t, err)

	require.NoError(t, c.RevokeToken(ctx, tok.AuthToken))

	_, err = c.Permissions(ctx, tok.AuthToken, "bob")
	require.ErrorIs(t, err, ErrUnauthorized, "revoked token is rejected")

	err = c.RevokeToken(ctx, tok.AuthToken)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(NewServer(nil).Router())
	url := ts.URL
	ts.Close()

	c, err := NewClient(url, time.Second)
	require.NoError(t, err)

	err = c.Health(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestLoadUsers(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "users.yaml")
		body := "users:\n" +
			"  - username: alice\n" +
			"    password_hash: " + hash(t, "pw") + "\n" +
			"    permissions:\n" +
			"      - type: SYSTEM\n" +
			"        action: ADMINISTER\n" +
			"      - type: CONNECTION\n" +
			"        object: \"7\"\n" +
			"        action: READ\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		users, err := LoadUsers(path)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
		require.Len(t, users[0].Permissions, 2)
		assert.Equal(t, permission.TypeSystem, users[0].Permissions[0].ObjectType)
		assert.Equal(t, "7", users[0].Permissions[1].ObjectID)
	})

	t.Run("plaintext password rejected", func(t *testing.T) {
		path := filepath.Join(dir, "plain.yaml")
		require.NoError(t, os.WriteFile(path, []byte("users:\n  - username: a\n    password_hash: secret\n"), 0o600))

		_, err := LoadUsers(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bcrypt")
	})

	t.Run("duplicate user", func(t *testing.T) {
		path := filepath.Join(dir, "dup.yaml")
		h := hash(t, "pw")
		body := "users:\n  - username: a\n    password_hash: " + h + "\n  - username: a\n    password_hash: " + h + "\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		_, err := LoadUsers(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, checkPassword(h, "pw"))
	assert.False(t, checkPassword(h, "nope"))
}
