package cache_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/adapters/cache"
	"go.trai.ch/obr/internal/adapters/connector"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// remote is a test server whose content and availability can change between requests.
type remote struct {
	mu      sync.Mutex
	body    string
	down    bool
	fetches atomic.Int32
}

func (r *remote) set(body string, down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.body, r.down = body, down
}

func (r *remote) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	r.fetches.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte(r.body))
}

func newCache(t *testing.T, srv *httptest.Server) (*cache.Cache, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	conn := connector.New(0)
	if srv != nil {
		conn = connector.NewWithClient(srv.Client())
	}
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), conn, log)
	require.NoError(t, err)
	return c, log
}

func request(t *testing.T, c *cache.Cache, rawURL string, mode domain.CacheMode) (string, error) {
	t.Helper()
	h, err := c.Handle(rawURL, "", mode)
	require.NoError(t, err)
	return h.Request(t.Context())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://repo.example.org/dir/a.jar", filepath.Join("http:%2F%2Frepo.example.org%2Fdir", "a.jar")},
		{"http://repo.example.org/a b.jar", filepath.Join("http:%2F%2Frepo.example.org", "a%20b.jar")},
		{"opaque", "opaque"},
		{"http://repo.example.org/dir/", filepath.Join("http:%2F%2Frepo.example.org%2Fdir", "_")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cache.Key(tt.url), tt.url)
	}
}

func TestCache_PreferCacheNeverRefetches(t *testing.T) {
	rem := &remote{body: "v1"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	path, err := request(t, c, srv.URL+"/a.jar", domain.PreferCache)
	require.NoError(t, err)
	assert.Equal(t, "v1", readFile(t, path))

	rem.set("v2", false)
	path, err = request(t, c, srv.URL+"/a.jar", domain.PreferCache)
	require.NoError(t, err)
	assert.Equal(t, "v1", readFile(t, path))
	assert.Equal(t, int32(1), rem.fetches.Load())
}

func TestCache_PreferCacheColdStartFailure(t *testing.T) {
	rem := &remote{down: true}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	_, err := request(t, c, srv.URL+"/a.jar", domain.PreferCache)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
	assert.Equal(t, int32(1), rem.fetches.Load())
}

func TestCache_PreferRemoteRefreshes(t *testing.T) {
	rem := &remote{body: "v1"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	path, err := request(t, c, srv.URL+"/index.xml", domain.PreferRemote)
	require.NoError(t, err)
	assert.Equal(t, "v1", readFile(t, path))

	rem.set("v2", false)
	path, err = request(t, c, srv.URL+"/index.xml", domain.PreferRemote)
	require.NoError(t, err)
	assert.Equal(t, "v2", readFile(t, path))
}

func TestCache_PreferRemoteFallsBackToStale(t *testing.T) {
	rem := &remote{body: "v1"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, log := newCache(t, srv)

	_, err := request(t, c, srv.URL+"/index.xml", domain.PreferRemote)
	require.NoError(t, err)

	rem.set("v2", true)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	path, err := request(t, c, srv.URL+"/index.xml", domain.PreferRemote)
	require.NoError(t, err)
	assert.Equal(t, "v1", readFile(t, path))
}

func TestCache_PreferRemoteWithoutCopyFails(t *testing.T) {
	rem := &remote{down: true}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	_, err := request(t, c, srv.URL+"/index.xml", domain.PreferRemote)
	assert.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
}

func TestCache_LeavesNoTempFiles(t *testing.T) {
	rem := &remote{body: "content"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	path, err := request(t, c, srv.URL+"/a.jar", domain.PreferRemote)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jar", entries[0].Name())
}

func TestCache_ConcurrentRequests(t *testing.T) {
	rem := &remote{body: "shared"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	var wg sync.WaitGroup
	paths := make([]string, 8)
	errs := make([]error, 8)
	for i := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := c.Handle(srv.URL+"/a.jar", "", domain.PreferCache)
			if err != nil {
				errs[i] = err
				return
			}
			paths[i], errs[i] = h.Request(t.Context())
		}()
	}
	wg.Wait()

	for i := range paths {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", readFile(t, paths[i]))
	}
}

func TestCache_LocalFiles(t *testing.T) {
	c, _ := newCache(t, nil)

	repo := t.TempDir()
	jar := filepath.Join(repo, "jars", "a.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(jar), domain.DirPerm))
	require.NoError(t, os.WriteFile(jar, []byte("jar"), domain.FilePerm))

	base := "file://" + filepath.Join(repo, "index.xml")

	h, err := c.Handle("jars/a.jar", base, domain.PreferCache)
	require.NoError(t, err)
	assert.Equal(t, "a.jar", h.Name())
	assert.Equal(t, "file://"+jar, h.Location())

	path, err := h.Request(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jar, path)

	h, err = c.Handle("file:"+jar, "", domain.PreferRemote)
	require.NoError(t, err)
	path, err = h.Request(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jar, path)
}

func TestCache_BrokenLink(t *testing.T) {
	c, _ := newCache(t, nil)
	base := "file://" + filepath.Join(t.TempDir(), "index.xml")

	_, err := c.Handle("jars/missing.jar", base, domain.PreferCache)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBrokenLink.Error())

	_, err = c.Handle("ftp://example.org/a.jar", "", domain.PreferCache)
	assert.ErrorContains(t, err, domain.ErrBrokenLink.Error())
}

func TestCache_Clean(t *testing.T) {
	rem := &remote{body: "x"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	path, err := request(t, c, srv.URL+"/a.jar", domain.PreferCache)
	require.NoError(t, err)

	require.NoError(t, c.Clean())
	assert.NoFileExists(t, path)
	assert.DirExists(t, c.Dir())
}

func TestCache_Digest(t *testing.T) {
	rem := &remote{body: "remote body"}
	srv := httptest.NewServer(rem)
	defer srv.Close()
	c, _ := newCache(t, srv)

	h, err := c.Handle(srv.URL+"/a.jar", "", domain.PreferCache)
	require.NoError(t, err)
	_, err = h.Request(t.Context())
	require.NoError(t, err)
	d, err := h.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest.FromString("remote body"), d)

	// Served from the cache without a download.
	h, err = c.Handle(srv.URL+"/a.jar", "", domain.PreferCache)
	require.NoError(t, err)
	_, err = h.Request(t.Context())
	require.NoError(t, err)
	d, err = h.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest.FromString("remote body"), d)
	assert.Equal(t, int32(1), rem.fetches.Load())

	jar := filepath.Join(t.TempDir(), "local.jar")
	require.NoError(t, os.WriteFile(jar, []byte("local"), domain.FilePerm))
	h, err = c.Handle("file://"+jar, "", domain.PreferCache)
	require.NoError(t, err)
	d, err = h.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest.FromString("local"), d)
}

// stallFirst blocks the first request until its client goes away and serves the rest.
type stallFirst struct {
	started chan struct{}
	calls   atomic.Int32
}

func (s *stallFirst) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.calls.Add(1) == 1 {
		close(s.started)
		<-r.Context().Done()
		return
	}
	_, _ = w.Write([]byte("fresh"))
}

func TestCache_CancelledDownloadDoesNotFailOthers(t *testing.T) {
	stall := &stallFirst{started: make(chan struct{})}
	srv := httptest.NewServer(stall)
	defer srv.Close()
	c, _ := newCache(t, srv)

	first, err := c.Handle(srv.URL+"/a.jar", "", domain.PreferCache)
	require.NoError(t, err)
	second, err := c.Handle(srv.URL+"/a.jar", "", domain.PreferCache)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := first.Request(ctx)
		firstErr <- err
	}()
	<-stall.started

	type result struct {
		path string
		err  error
	}
	secondRes := make(chan result, 1)
	go func() {
		path, err := second.Request(t.Context())
		secondRes <- result{path, err}
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	require.Error(t, <-firstErr)
	res := <-secondRes
	require.NoError(t, res.err)
	assert.Equal(t, "fresh", readFile(t, res.path))
}
