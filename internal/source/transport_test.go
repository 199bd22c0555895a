package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGetter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	g := NewHTTPGetter(srv.Client())
	body, err := g.Get(context.Background(), srv.URL+"/BTCUSDT/1h/BTCUSDT-1h-2023-02.zip")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
}

func TestHTTPGetterNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	g := NewHTTPGetter(srv.Client())
	_, err := g.Get(context.Background(), srv.URL+"/missing.zip")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPGetterContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewHTTPGetter(srv.Client())
	_, err := g.Get(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}
