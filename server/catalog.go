package server

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogKind 商品类目
type CatalogKind string

const (
	KindSkin  CatalogKind = "skin"
	KindTheme CatalogKind = "theme"
)

// CatalogItem 价目表条目
type CatalogItem struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Price int    `yaml:"price" json:"price"`
}

type catalogFile struct {
	Skins  []CatalogItem `yaml:"skins"`
	Themes []CatalogItem `yaml:"themes"`
}

// Catalog 皮肤与主题的静态价目表，启动后只读
type Catalog struct {
	skins  map[string]CatalogItem
	themes map[string]CatalogItem
	order  map[CatalogKind][]string

	DefaultSkin  string
	DefaultTheme string
}

// DefaultCatalog 解析内嵌的 catalog.yaml
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog 从文件加载价目表
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(raw)
}

// ParseCatalog 解析并校验：id 唯一、价格非负、每个类目恰有一个免费默认项
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}
	c := &Catalog{
		skins:  make(map[string]CatalogItem, len(f.Skins)),
		themes: make(map[string]CatalogItem, len(f.Themes)),
		order:  make(map[CatalogKind][]string, 2),
	}
	var err error
	if c.DefaultSkin, err = c.index(KindSkin, f.Skins, c.skins); err != nil {
		return nil, err
	}
	if c.DefaultTheme, err = c.index(KindTheme, f.Themes, c.themes); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index(kind CatalogKind, items []CatalogItem, dst map[string]CatalogItem) (string, error) {
	var def string
	for _, it := range items {
		if it.ID == "" {
			return "", fmt.Errorf("catalog %s: empty id", kind)
		}
		if _, dup := dst[it.ID]; dup {
			return "", fmt.Errorf("catalog %s: duplicate id %q", kind, it.ID)
		}
		if it.Price < 0 {
			return "", fmt.Errorf("catalog %s: negative price for %q", kind, it.ID)
		}
		if it.Price == 0 {
			if def != "" {
				return "", fmt.Errorf("catalog %s: more than one free default (%q, %q)", kind, def, it.ID)
			}
			def = it.ID
		}
		dst[it.ID] = it
		c.order[kind] = append(c.order[kind], it.ID)
	}
	if def == "" {
		return "", fmt.Errorf("catalog %s: no free default entry", kind)
	}
	return def, nil
}

// Lookup 查询条目
func (c *Catalog) Lookup(kind CatalogKind, id string) (CatalogItem, bool) {
	var it CatalogItem
	var ok bool
	switch kind {
	case KindSkin:
		it, ok = c.skins[id]
	case KindTheme:
		it, ok = c.themes[id]
	}
	return it, ok
}

// Items 按文件顺序列出某类目的全部条目
func (c *Catalog) Items(kind CatalogKind) []CatalogItem {
	ids := c.order[kind]
	out := make([]CatalogItem, 0, len(ids))
	for _, id := range ids {
		it, _ := c.Lookup(kind, id)
		out = append(out, it)
	}
	return out
}
