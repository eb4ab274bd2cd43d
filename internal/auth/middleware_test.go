package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthenticateBranches(t *testing.T) {
	codec, _ := newTestCodec(t)
	valid, err := codec.Issue(Identity{ID: "42", Role: RoleBasic})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{name: "absent", header: "", want: ErrMissingCredential},
		{name: "no scheme", header: valid, want: ErrMalformedCredential},
		{name: "wrong scheme", header: "Token " + valid, want: ErrMalformedCredential},
		{name: "lowercase scheme", header: "bearer " + valid, want: ErrMalformedCredential},
		{name: "scheme only", header: "Bearer", want: ErrMalformedCredential},
		{name: "extra segment", header: "Bearer " + valid + " extra", want: ErrMalformedCredential},
		{name: "double space", header: "Bearer  " + valid, want: ErrMalformedCredential},
		{name: "empty value", header: "Bearer ", want: ErrInvalidCredential},
		{name: "bad token", header: "Bearer not.a.jwt", want: ErrInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authenticate(tt.header, codec)
			require.ErrorIs(t, err, tt.want)
		})
	}

	id, err := Authenticate("Bearer "+valid, codec)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "42", Role: RoleBasic}, id)
}

func TestMiddlewareRejectsUniformly(t *testing.T) {
	codec, _ := newTestCodec(t)
	forged, err := NewCodec([]byte("wrong"), 0, nil).Issue(Identity{ID: "42", Role: RoleAdmin})
	require.NoError(t, err)

	called := false
	h := Middleware(codec, zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	var bodies []string
	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer " + forged} {
		req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		bodies = append(bodies, rec.Body.String())
	}
	assert.False(t, called)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	codec, _ := newTestCodec(t)
	token, err := codec.Issue(Identity{ID: "42", Role: RoleAdmin})
	require.NoError(t, err)

	var got Identity
	h := Middleware(codec, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		got, ok = IdentityFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, Identity{ID: "42", Role: RoleAdmin}, got)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	gate := RequireRole(RoleAdmin, zap.NewNop().Sugar())(ok)

	serve := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/doctors", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(WithIdentity(context.Background(), Identity{ID: "7", Role: RoleBasic}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authorization denied. Only Admin users can perform this action.", body["msg"])

	rec = serve(WithIdentity(context.Background(), Identity{ID: "8", Role: RoleAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)

	// without the authentication stage in front there is no identity to check
	rec = serve(context.Background())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityFromEmptyContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
