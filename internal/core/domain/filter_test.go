package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/core/domain"
)

func TestFilter_Match(t *testing.T) {
	props := map[string]string{
		"package":   "org.example.api",
		"version":   "1.5.0",
		"Mode":      "runtime",
		"vendor":    "Example   Corp",
		"empty-ish": "",
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{"(package=org.example.api)", true},
		{"(package=org.example.other)", false},
		{"(PACKAGE=org.example.api)", true},
		{"(mode=runtime)", true},
		{"(&(package=org.example.api)(version>=1.0.0))", true},
		{"(&(package=org.example.api)(version>=1.10.0))", false},
		{"(&(package=org.example.api)(version>=1.0.0)(!(version>=2.0.0)))", true},
		{"(|(package=a)(package=org.example.api))", true},
		{"(|(package=a)(package=b))", false},
		{"(!(package=a))", true},
		{"(version<=1.5)", true},
		{"(version=1.5)", true},
		{"(package=org.example.*)", true},
		{"(package=*api)", true},
		{"(package=org*ex*api)", true},
		{"(package=org*zz*api)", false},
		{"(package=*)", true},
		{"(missing=*)", false},
		{"(vendor~=examplecorp)", true},
		{"( package = org.example.api )", false},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			f, err := domain.ParseFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(props))
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, expr := range []string{
		"",
		"package=a",
		"(package=a",
		"(&)",
		"(=a)",
		"(package>a)",
		"(package=a))",
		"(package=a(b))",
		"(package=a\\",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := domain.ParseFilter(expr)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrInvalidFilter.Error())
		})
	}
}

func TestFilter_Escapes(t *testing.T) {
	f, err := domain.ParseFilter(`(name=a\*b\(c\))`)
	require.NoError(t, err)
	assert.True(t, f.Match(map[string]string{"name": "a*b(c)"}))
	assert.False(t, f.Match(map[string]string{"name": "aXb(c)"}))
	assert.Equal(t, `(name=a\*b\(c\))`, f.String())
}
