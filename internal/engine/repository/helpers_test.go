package repository_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/adapters/cache"
	"go.trai.ch/obr/internal/adapters/connector"
	"go.trai.ch/obr/internal/adapters/index"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports/mocks"
	"go.trai.ch/obr/internal/engine/repository"
	"go.uber.org/mock/gomock"
)

// bundle describes one resource element of a generated index document.
type bundle struct {
	bsn     string
	version string
	body    string
	missing bool
}

func jarName(b bundle) string {
	return b.bsn + "-" + b.version + ".jar"
}

// writeIndex writes an index document and the jars it references into dir and returns its URL.
func writeIndex(t *testing.T, dir, name string, bundles []bundle, extra ...string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("<repository>\n")
	for _, e := range extra {
		sb.WriteString(e + "\n")
	}
	for _, b := range bundles {
		fmt.Fprintf(&sb, "<resource id=%q symbolicname=%q uri=%q version=%q>\n%s\n</resource>\n",
			b.bsn+"/"+b.version, b.bsn, "jars/"+jarName(b), b.version, b.body)
		if b.missing {
			continue
		}
		jar := filepath.Join(dir, "jars", jarName(b))
		require.NoError(t, os.MkdirAll(filepath.Dir(jar), domain.DirPerm))
		require.NoError(t, os.WriteFile(jar, []byte(b.bsn+"@"+b.version), domain.FilePerm))
	}
	sb.WriteString("</repository>\n")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), domain.FilePerm))
	return "file://" + path
}

func referral(url string, depth int) string {
	return fmt.Sprintf("<referral url=%q depth=\"%d\"/>", url, depth)
}

func exportPkg(pkg, version, uses string) string {
	s := `<capability name="package"><p n="package" v="` + pkg + `"/><p n="version" t="version" v="` + version + `"/>`
	if uses != "" {
		s += `<p n="uses" v="` + uses + `"/>`
	}
	return s + "</capability>"
}

func requirePkg(filter string) string {
	return `<require name="package" filter="` + escapeAttr(filter) + `"/>`
}

func requireMode(filter string) string {
	if filter == "" {
		return `<require name="mode"/>`
	}
	return `<require name="mode" filter="` + escapeAttr(filter) + `"/>`
}

func escapeAttr(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

type fixture struct {
	repo   *repository.Repository
	logger *mocks.MockLogger
	cfg    *domain.RepositoryConfig
}

// newRepository builds a repository over locations with quiet debug and info logging.
func newRepository(t *testing.T, locations ...string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), connector.New(0), log)
	require.NoError(t, err)

	cfg := &domain.RepositoryConfig{
		Name:          "test",
		Locations:     locations,
		Modes:         domain.DefaultModes(),
		ReferralDepth: domain.DefaultReferralDepth,
	}
	return &fixture{
		repo:   repository.New(cfg, c, index.NewParser(log), log),
		logger: log,
		cfg:    cfg,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
