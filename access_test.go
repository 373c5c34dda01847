package dirindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/dirindex"
)

func TestAccessPolicy_Allows(t *testing.T) {
	tt := []struct {
		Name     string
		Exact    []string
		Prefix   []string
		AllowAll bool
		Subpath  []string
		Want     bool
	}{
		{Name: "exact match", Exact: []string{"images"}, Subpath: []string{"images"}, Want: true},
		{Name: "exact match nested", Exact: []string{"images"}, Subpath: []string{"images", "2024"}, Want: true},
		{Name: "exact is not prefix", Exact: []string{"images"}, Subpath: []string{"images-high"}, Want: false},
		{Name: "prefix match", Prefix: []string{"images"}, Subpath: []string{"images-high"}, Want: true},
		{Name: "prefix full segment", Prefix: []string{"images"}, Subpath: []string{"images"}, Want: true},
		{Name: "prefix only first segment", Prefix: []string{"images"}, Subpath: []string{"docs", "images"}, Want: false},
		{Name: "not listed", Exact: []string{"images"}, Prefix: []string{"img"}, Subpath: []string{"scripts"}, Want: false},
		{Name: "empty subpath with lists", Exact: []string{"images"}, Subpath: []string{}, Want: false},
		{Name: "empty lists deny", Subpath: []string{"images"}, Want: false},
		{Name: "empty lists deny root", Subpath: []string{}, Want: false},
		{Name: "allow all", AllowAll: true, Subpath: []string{"anything"}, Want: true},
		{Name: "allow all root", AllowAll: true, Subpath: []string{}, Want: true},
		{Name: "raw first segment compared", Exact: []string{"images"}, Subpath: []string{"%69mages"}, Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			p, err := dirindex.NewAccessPolicy(tc.Exact, tc.Prefix, tc.AllowAll)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, p.Allows(tc.Subpath))
		})
	}
}

func TestAccessPolicy_ZeroValueDenies(t *testing.T) {
	var p dirindex.AccessPolicy

	assert.False(t, p.Allows([]string{}))
	assert.False(t, p.Allows([]string{"images"}))
	assert.False(t, p.AllowAll())
}

func TestNewAccessPolicy_Invalid(t *testing.T) {
	_, err := dirindex.NewAccessPolicy([]string{"a"}, nil, true)
	assert.ErrorIs(t, err, dirindex.ErrInvalidConfig)

	_, err = dirindex.NewAccessPolicy([]string{""}, nil, false)
	assert.ErrorIs(t, err, dirindex.ErrInvalidConfig)

	_, err = dirindex.NewAccessPolicy(nil, []string{""}, false)
	assert.ErrorIs(t, err, dirindex.ErrInvalidConfig)
}

func TestAccessPolicy_Lists(t *testing.T) {
	p, err := dirindex.NewAccessPolicy([]string{"videos", "images"}, []string{"docs-"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"images", "videos"}, p.Exact())
	assert.Equal(t, []string{"docs-"}, p.Prefix())

	p.Prefix()[0] = "changed"
	assert.Equal(t, []string{"docs-"}, p.Prefix())
}
