package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphFake struct {
	server      *httptest.Server
	tokenCalls  atomic.Int32
	tokenStatus int
	fileStatus  int
	workbook    []byte
	lastAuth    atomic.Value
}

func newGraphFake(t *testing.T, workbook []byte) *graphFake {
	t.Helper()
	g := &graphFake{tokenStatus: http.StatusOK, fileStatus: http.StatusOK, workbook: workbook}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		g.tokenCalls.Add(1)
		if g.tokenStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(g.tokenStatus)
			w.Write([]byte(`{"error":"invalid_client","error_description":"bad secret"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /users/{user}/drive/items/{item}/content", func(w http.ResponseWriter, r *http.Request) {
		g.lastAuth.Store(r.Header.Get("Authorization"))
		if g.fileStatus != http.StatusOK {
			w.WriteHeader(g.fileStatus)
			return
		}
		w.Write(g.workbook)
	})
	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *graphFake) source(t *testing.T) *GraphSource {
	t.Helper()
	src, err := NewGraphSource(GraphConfig{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		User:         "owner@example.com",
		FileID:       "FILE1",
		Sheet:        "Demandas ID",
		BaseURL:      g.server.URL,
		TokenURL:     g.server.URL + "/token",
		HTTPClient:   g.server.Client(),
	})
	require.NoError(t, err)
	return src
}

func TestGraphSourceFetch(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Demandas ID": {{"ID", "Prazo (dias)"}, {1, 0}, {2, 9}},
	}, "Demandas ID")
	g := newGraphFake(t, data)
	src := g.source(t)

	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Table.NumRows())
	assert.Equal(t, "SharePoint - Demandas ID", ds.Source)
	assert.False(t, ds.Sample)
	assert.Equal(t, "Bearer tok-123", g.lastAuth.Load())

	// the token is cached across fetches
	_, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), g.tokenCalls.Load())

	src.ResetCredentials()
	require.NoError(t, src.Check(context.Background()))
	assert.Equal(t, int32(2), g.tokenCalls.Load())
}

func TestGraphSourceErrors(t *testing.T) {
	tests := []struct {
		name        string
		tokenStatus int
		fileStatus  int
		expected    error
	}{
		{name: "bad credentials", tokenStatus: http.StatusUnauthorized, fileStatus: http.StatusOK, expected: ErrAuthFailure},
		{name: "token server down", tokenStatus: http.StatusServiceUnavailable, fileStatus: http.StatusOK, expected: ErrUnknown},
		{name: "expired token", tokenStatus: http.StatusOK, fileStatus: http.StatusUnauthorized, expected: ErrAuthFailure},
		{name: "missing file", tokenStatus: http.StatusOK, fileStatus: http.StatusNotFound, expected: ErrNotFound},
		{name: "forbidden", tokenStatus: http.StatusOK, fileStatus: http.StatusForbidden, expected: ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraphFake(t, nil)
			g.tokenStatus = tt.tokenStatus
			g.fileStatus = tt.fileStatus

			_, err := g.source(t).Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestGraphSourceUnparseableBody(t *testing.T) {
	g := newGraphFake(t, []byte("<html>login</html>"))
	_, err := g.source(t).Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrParseFailure))
}

func TestNewGraphSourceRequiresCredentials(t *testing.T) {
	_, err := NewGraphSource(GraphConfig{User: "u", FileID: "f"})
	assert.True(t, errors.Is(err, ErrAuthFailure))

	_, err = NewGraphSource(GraphConfig{TenantID: "t", ClientID: "c", ClientSecret: "s"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
