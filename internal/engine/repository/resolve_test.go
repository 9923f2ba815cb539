package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/engine/repository"
)

func packageRepo(t *testing.T) *fixture {
	t.Helper()
	loc := writeIndex(t, t.TempDir(), "index.xml", []bundle{
		{
			bsn:     "org.example.api",
			version: "1.0.0",
			body: exportPkg("org.example.p", "1.0.0", "org.example.a,org.example.b") +
				exportPkg("org.example.a", "1.0.0", "") +
				requirePkg("(package=org.example.b)"),
		},
		{
			bsn:     "org.example.api",
			version: "1.1.0",
			body:    exportPkg("org.example.p", "1.1.0", "") + requireMode("(mode=runtime)"),
		},
		{
			bsn:     "org.example.api",
			version: "1.2.0",
			body:    exportPkg("org.example.p", "1.2.0", "") + requireMode(""),
		},
	})
	return newRepository(t, loc)
}

func TestExpandUses(t *testing.T) {
	b := &domain.ResourceBuilder{SymbolicName: "org.example.api", URL: "a.jar"}
	b.AddCapability(domain.NewCapabilityBuilder(domain.CapabilityPackage).
		AddProperty(domain.Property{Name: "package", Value: "p"}).
		AddProperty(domain.Property{Name: "uses", Value: "a, b,c"}).
		Build())
	b.AddCapability(domain.NewCapabilityBuilder(domain.CapabilityPackage).
		AddProperty(domain.Property{Name: "package", Value: "a"}).
		Build())
	b.AddRequire(domain.Require{Name: domain.RequirePackage, Filter: "(package=b)"})
	res, err := b.Build()
	require.NoError(t, err)

	internal, external := repository.ExpandUses(res, "p")

	assert.Equal(t, []string{"p", "a"}, internal)
	assert.Equal(t, []string{"b;filter='(package=b)'"}, external)
}

func TestExpandUses_NoCapability(t *testing.T) {
	res, err := (&domain.ResourceBuilder{SymbolicName: "x", URL: "x.jar"}).Build()
	require.NoError(t, err)

	internal, external := repository.ExpandUses(res, "p")
	assert.Equal(t, []string{"p"}, internal)
	assert.Empty(t, external)
}

func TestRepository_PackageResolutionWritesUses(t *testing.T) {
	f := packageRepo(t)
	props := map[string]string{}

	h, err := f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Range:      "[1.0.0,1.1.0)",
		Properties: props,
	})
	require.NoError(t, err)
	require.NotNil(t, h)

	path, err := h.Request(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "org.example.api@1.0.0", readFile(t, path))
	assert.Equal(t, "org.example.p,org.example.a", props[domain.PropImportUses])
	assert.Equal(t, "org.example.b;filter='(package=org.example.b)'", props[domain.PropImportUsesExternal])
}

func TestRepository_PackageResolutionModes(t *testing.T) {
	f := packageRepo(t)

	tests := []struct {
		name string
		mode string
		want string
	}{
		{name: "default build mode", mode: "", want: "org.example.api@1.0.0"},
		{name: "build mode", mode: "build", want: "org.example.api@1.0.0"},
		{name: "runtime mode", mode: "runtime", want: "org.example.api@1.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := map[string]string{}
			if tt.mode != "" {
				props[domain.PropertyMode] = tt.mode
			}
			h, err := f.repo.GetHandle(t.Context(), repository.Request{
				Package:    "org.example.p",
				Strategy:   domain.StrategyHighest,
				Properties: props,
			})
			require.NoError(t, err)
			require.NotNil(t, h)

			path, err := h.Request(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tt.want, readFile(t, path))
		})
	}
}

func TestRepository_PackageResolutionUnsupportedMode(t *testing.T) {
	f := packageRepo(t)

	_, err := f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Properties: map[string]string{domain.PropertyMode: "test"},
	})
	assert.ErrorContains(t, err, domain.ErrUnsupportedMode.Error())
}

func TestRepository_PackageExact(t *testing.T) {
	f := packageRepo(t)
	runtime := func() map[string]string {
		return map[string]string{domain.PropertyMode: "runtime"}
	}

	h, err := f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Range:      "1.1.0",
		Strategy:   domain.StrategyExact,
		Properties: runtime(),
	})
	require.NoError(t, err)
	assert.NotNil(t, h)

	h, err = f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Range:      "[1.0.0,2.0.0)",
		Strategy:   domain.StrategyExact,
		Properties: runtime(),
	})
	require.NoError(t, err)
	assert.Nil(t, h)

	// Two candidates survive the runtime mode filter.
	h, err = f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Filter:     "(version>=1.0.0)",
		Strategy:   domain.StrategyExact,
		Properties: runtime(),
	})
	require.NoError(t, err)
	assert.Nil(t, h)

	h, err = f.repo.GetHandle(t.Context(), repository.Request{
		Package:    "org.example.p",
		Filter:     "(version=1.1.0)",
		Strategy:   domain.StrategyExact,
		Properties: runtime(),
	})
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestRepository_PackageFilter(t *testing.T) {
	f := packageRepo(t)

	h, err := f.repo.GetHandle(t.Context(), repository.Request{
		Package:  "org.example.a",
		Filter:   "(&(package=org.example.a)(version>=1.0.0))",
		Strategy: domain.StrategyLowest,
	})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "org.example.api-1.0.0.jar", h.Name())

	_, err = f.repo.GetHandle(t.Context(), repository.Request{
		Package: "org.example.a",
		Filter:  "(package=",
	})
	assert.ErrorContains(t, err, domain.ErrInvalidFilter.Error())
}

func TestRepository_Packages(t *testing.T) {
	f := packageRepo(t)

	pkgs, err := f.repo.Packages(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"org.example.a", "org.example.p"}, pkgs)
}
