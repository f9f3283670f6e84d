package httptransport

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := ServerConfig{
		Address:      ":9090",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	srv := NewServer(cfg, http.NewServeMux())

	require.Equal(t, ":9090", srv.Addr)
	require.Equal(t, 5*time.Second, srv.ReadTimeout)
	require.Equal(t, 10*time.Second, srv.WriteTimeout)
	require.Equal(t, 30*time.Second, srv.IdleTimeout)
}

func TestNewServerDefaultsIdleTimeout(t *testing.T) {
	srv := NewServer(ServerConfig{Address: ":8080"}, http.NewServeMux())
	require.Equal(t, defaultIdleTimeout, srv.IdleTimeout)
}
