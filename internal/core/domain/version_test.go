package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/core/domain"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1", "1.0.0", false},
		{"1.2", "1.2.0", false},
		{"1.2.3", "1.2.3", false},
		{"1.2.3.SNAPSHOT", "1.2.3.SNAPSHOT", false},
		{"1.2.3.2024-01_a", "1.2.3.2024-01_a", false},
		{"  2.0.0  ", "2.0.0", false},
		{"", "0.0.0", false},
		{"a.b.c", "", true},
		{"1.-2", "", true},
		{"1.2.3.bad.qualifier!", "", true},
		{"1..3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := domain.ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, domain.ErrInvalidVersion.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseVersionOrZero(t *testing.T) {
	assert.Equal(t, domain.ZeroVersion, domain.ParseVersionOrZero("not-a-version"))
	assert.Equal(t, "1.5.0", domain.ParseVersionOrZero("1.5").String())
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"1.10.0", "1.9.0", 1},
		{"1.0.0", "1.0.0.qualifier", -1},
		{"1.0.0.a", "1.0.0.b", -1},
		{"2.0.0", "1.99.99", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a := domain.ParseVersionOrZero(tt.a)
			b := domain.ParseVersionOrZero(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
		})
	}
}

func TestParseVersionRange(t *testing.T) {
	tests := []struct {
		expr     string
		in       []string
		out      []string
		wantText string
	}{
		{
			expr:     "1.0.0",
			in:       []string{"1.0.0", "1.5.0", "99.0.0"},
			out:      []string{"0.9.9"},
			wantText: "1.0.0",
		},
		{
			expr:     "[1.0.0,2.0.0)",
			in:       []string{"1.0.0", "1.5.0", "1.99.99"},
			out:      []string{"0.9.0", "2.0.0", "2.0.1"},
			wantText: "[1.0.0,2.0.0)",
		},
		{
			expr:     "(1.0,2.0]",
			in:       []string{"1.0.1", "2.0.0"},
			out:      []string{"1.0.0", "2.0.1"},
			wantText: "(1.0.0,2.0.0]",
		},
		{
			expr:     "[1.2.3,1.2.3]",
			in:       []string{"1.2.3"},
			out:      []string{"1.2.2", "1.2.3.q"},
			wantText: "[1.2.3,1.2.3]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := domain.ParseVersionRange(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, r.String())
			for _, v := range tt.in {
				assert.True(t, r.Includes(domain.ParseVersionOrZero(v)), "expected %s in %s", v, tt.expr)
			}
			for _, v := range tt.out {
				assert.False(t, r.Includes(domain.ParseVersionOrZero(v)), "expected %s outside %s", v, tt.expr)
			}
		})
	}
}

func TestParseVersionRange_Invalid(t *testing.T) {
	for _, expr := range []string{"", "[1.0", "[1.0,2.0", "[2.0,1.0]", "[1.0,]", "[1,2,3]", "latest", "(x,y)"} {
		t.Run(expr, func(t *testing.T) {
			_, err := domain.ParseVersionRange(expr)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrInvalidVersionRange.Error())
		})
	}
}

func TestVersionRange_Above(t *testing.T) {
	bounded, err := domain.ParseVersionRange("[1.0.0,2.0.0)")
	require.NoError(t, err)
	assert.False(t, bounded.Above(domain.ParseVersionOrZero("1.9.0")))
	assert.True(t, bounded.Above(domain.ParseVersionOrZero("2.0.0")))

	floor, err := domain.ParseVersionRange("1.0.0")
	require.NoError(t, err)
	assert.False(t, floor.IsRange())
	assert.False(t, floor.Above(domain.ParseVersionOrZero("100.0.0")))
}
