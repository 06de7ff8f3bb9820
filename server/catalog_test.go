package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, "penguin", c.DefaultSkin)
	assert.Equal(t, "default", c.DefaultTheme)

	it, ok := c.Lookup(KindSkin, "polarBear")
	require.True(t, ok)
	assert.Equal(t, 10, it.Price)

	_, ok = c.Lookup(KindTheme, "polarBear")
	assert.False(t, ok)

	skins := c.Items(KindSkin)
	require.NotEmpty(t, skins)
	assert.Equal(t, "penguin", skins[0].ID)
}

func TestParseCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"no free skin": `
skins: [{id: a, name: A, price: 5}]
themes: [{id: d, name: D, price: 0}]`,
		"two free skins": `
skins: [{id: a, name: A, price: 0}, {id: b, name: B, price: 0}]
themes: [{id: d, name: D, price: 0}]`,
		"duplicate id": `
skins: [{id: a, name: A, price: 0}, {id: a, name: A2, price: 3}]
themes: [{id: d, name: D, price: 0}]`,
		"negative price": `
skins: [{id: a, name: A, price: 0}, {id: b, name: B, price: -3}]
themes: [{id: d, name: D, price: 0}]`,
		"empty id": `
skins: [{id: "", name: A, price: 0}]
themes: [{id: d, name: D, price: 0}]`,
		"not yaml": `skins: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
skins:
  - {id: penguin, name: Penguin, price: 0}
  - {id: yeti, name: Yeti, price: 99}
themes:
  - {id: default, name: Default, price: 0}
`), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	it, ok := c.Lookup(KindSkin, "yeti")
	require.True(t, ok)
	assert.Equal(t, 99, it.Price)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewServer_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
skins:
  - {id: husky, name: Husky, price: 0}
  - {id: yeti, name: Yeti, price: 99}
themes:
  - {id: tundra, name: Tundra, price: 0}
`), 0644))

	cfg := testConfig()
	cfg.Catalog.File = path
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	st := srv.room.state
	assert.Equal(t, "husky", st.Catalog.DefaultSkin)
	assert.Equal(t, "tundra", st.Catalog.DefaultTheme)
	_, ok := st.Catalog.Lookup(KindSkin, "yeti")
	assert.True(t, ok)

	cfg.Catalog.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewServer(cfg)
	assert.Error(t, err)
}
