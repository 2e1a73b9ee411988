package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoutes() []Route {
	return []Route{
		{Pattern: "/login", Title: "Login", BodyClassName: "login"},
		{Pattern: "/", Title: "Home", BodyClassName: "home"},
		{Pattern: "/connections/*", Title: "Connection", BodyClassName: "client"},
		{Pattern: "/settings/**"},
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                 "/",
		"login":            "/login",
		"/login/":          "/login",
		" /a/../settings ": "/settings",
		"//connections//x": "/connections/x",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestRouter_Resolve(t *testing.T) {
	r := New(testRoutes(), "/")

	got, err := r.Resolve("/connections/42")
	require.NoError(t, err)
	assert.Equal(t, "Connection", got.Title)

	got, err = r.Resolve("/settings/users/alice")
	require.NoError(t, err)
	assert.Equal(t, "/settings/**", got.Pattern)

	_, err = r.Resolve("/nowhere")
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestRouter_Path(t *testing.T) {
	t.Run("emits change with previous route", func(t *testing.T) {
		r := New(testRoutes(), "/")
		var changes []Change
		r.OnChange(func(c Change) { changes = append(changes, c) })

		r.Path("/login")
		r.Path("/")

		require.Len(t, changes, 2)
		assert.Nil(t, changes[0].Previous)
		assert.Equal(t, "Login", changes[0].Current.Title)
		assert.Equal(t, "Login", changes[1].Previous.Title)
		assert.Equal(t, "Home", changes[1].Current.Title)
		assert.Equal(t, "/", r.CurrentPath())
	})

	t.Run("same path is a no-op", func(t *testing.T) {
		r := New(testRoutes(), "/")
		calls := 0
		r.OnChange(func(Change) { calls++ })

		r.Path("/login")
		r.Path("login/")

		assert.Equal(t, 1, calls)
	})

	t.Run("unknown path redirects to otherwise", func(t *testing.T) {
		r := New(testRoutes(), "/")
		var last Change
		r.OnChange(func(c Change) { last = c })

		r.Path("/does/not/exist")

		assert.Equal(t, "/", last.Path)
		assert.Equal(t, "Home", r.Current().Title)
	})

	t.Run("unknown path without fallback keeps location", func(t *testing.T) {
		r := New(testRoutes(), "")
		r.Path("/login")
		r.Path("/does/not/exist")

		assert.Equal(t, "/login", r.CurrentPath())
	})

	t.Run("unresolvable fallback does not loop", func(t *testing.T) {
		r := New([]Route{{Pattern: "/login"}}, "/missing")
		r.Path("/nope")

		assert.Nil(t, r.Current())
	})
}
