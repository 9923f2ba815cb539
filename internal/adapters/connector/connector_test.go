package connector_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/adapters/connector"
	"go.trai.ch/obr/internal/core/domain"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestConnector_OpenHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<repository/>"))
	}))
	defer srv.Close()

	c := connector.New(5 * time.Second)

	rc, err := c.Open(t.Context(), mustURL(t, srv.URL+"/index.xml"))
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<repository/>", string(data))
}

func TestConnector_OpenHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := connector.NewWithClient(srv.Client())

	_, err := c.Open(t.Context(), mustURL(t, srv.URL+"/missing.xml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
}

func TestConnector_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.xml")
	require.NoError(t, os.WriteFile(path, []byte("local"), domain.FilePerm))

	c := connector.New(0)

	for _, raw := range []string{"file://" + path, "file:" + path} {
		rc, err := c.Open(t.Context(), mustURL(t, raw))
		require.NoError(t, err, raw)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "local", string(data))
	}
}

func TestConnector_OpenMissingFile(t *testing.T) {
	c := connector.New(0)

	_, err := c.Open(t.Context(), mustURL(t, "file://"+filepath.Join(t.TempDir(), "nope.xml")))
	assert.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
}

func TestConnector_UnsupportedScheme(t *testing.T) {
	c := connector.New(0)

	_, err := c.Open(t.Context(), mustURL(t, "ftp://example.org/index.xml"))
	assert.ErrorContains(t, err, domain.ErrUnsupportedScheme.Error())
}
