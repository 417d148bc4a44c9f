package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Berlin", "berlin"},
		{"  New   York ", "new york"},
		{"Saint-Étienne", "saint étienne"},
		{"10 Downing St., London", "10 downing st london"},
		{"", ""},
		{"--", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQuery(tt.in), tt.in)
	}
}

func TestWordSuffixes(t *testing.T) {
	assert.Equal(t, []string{"de janeiro", "janeiro"}, WordSuffixes("rio de janeiro"))
	assert.Nil(t, WordSuffixes("paris"))
}

func TestIsValidQuery(t *testing.T) {
	assert.True(t, IsValidQuery("221b baker street"))
	assert.False(t, IsValidQuery("221"))
	assert.False(t, IsValidQuery("aaaa"))
	assert.False(t, IsValidQuery(""))
	assert.True(t, IsValidQuery("aa"))
}

func TestDuplicateFilter(t *testing.T) {
	f := NewDuplicateFilter("Berlin")
	assert.False(t, f.ShouldInclude("berlin"))
	assert.True(t, f.ShouldInclude("Bern"))
	assert.False(t, f.ShouldInclude("BERN"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}

func TestTOMLRecoveryHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[remote]
provider = "nominatim"
cache_ttl_s = 30

[autocomplete]
point_zoom = 14
hide_on_select = true

[autocomplete.query_params]
country = "de"
bias = 2
`), 0o644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	remote, ok := ExtractSection(data, "remote")
	require.True(t, ok)
	provider, _ := ExtractString(remote, "provider")
	assert.Equal(t, "nominatim", provider)
	ttl, _ := ExtractInt64(remote, "cache_ttl_s")
	assert.Equal(t, 30, ttl)

	ac, ok := ExtractSection(data, "autocomplete")
	require.True(t, ok)
	zoom, ok := ExtractFloat(ac, "point_zoom")
	require.True(t, ok)
	assert.Equal(t, 14.0, zoom)
	hide, _ := ExtractBool(ac, "hide_on_select")
	assert.True(t, hide)

	params, ok := ExtractStringMap(ac, "query_params")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"country": "de", "bias": "2"}, params)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.True(t, FileExists(dir))
}

func TestCheckDirStatusRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	res := CheckDirStatus(path)
	assert.False(t, res.Exists)
	assert.False(t, res.Writable)
	assert.Error(t, res.Error)
}

func TestSaveTOMLFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("old = true\n"), 0o644))

	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
	}
	in := map[string]section{"autocomplete": {Limit: 5, Name: "berlin"}}
	require.NoError(t, SaveTOMLFile(in, path))

	var out map[string]section
	_, err := toml.DecodeFile(path, &out)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestWriteFileAtomicKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.bin")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	boom := errors.New("encode failed")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "partial"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"berlin", 3, "ber"},
		{"zürich", 2, "zü"},
		{"oslo", 10, "oslo"},
		{"oslo", 0, ""},
		{"東京都", 2, "東京"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.n), tt.in)
	}
}
