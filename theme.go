package extjs

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	helper "github.com/goliatone/go-extjs/pkg/extjs"
)

// DefaultThemeName is the stock ExtJS theme, which needs no extra stylesheet.
const DefaultThemeName = "default"

// NewThemeConfig returns a theme resolving the ExtJS 2 distribution under
// extPath and the container extension under assetsPrefix. Themes other than
// the default add resources/css/xtheme-<name>.css.
func NewThemeConfig(extPath, name, assetsPrefix string) *theme.RendererConfig {
	extPath = strings.TrimRight(strings.TrimSpace(extPath), "/")
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultThemeName
	}

	files := map[string]string{
		helper.AssetStylesheet: extPath + "/resources/css/ext-all.css",
		helper.AssetAdapter:    extPath + "/adapter/ext/ext-base.js",
		helper.AssetAll:        extPath + "/ext-all.js",
	}
	if name != DefaultThemeName {
		files[helper.AssetTheme] = extPath + "/resources/css/xtheme-" + name + ".css"
	}
	if prefix := strings.TrimSpace(assetsPrefix); prefix != "" {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		files[helper.AssetContainer] = prefix + ContainerScript
	}

	return &theme.RendererConfig{
		Theme: name,
		AssetURL: func(key string) string {
			return files[key]
		},
	}
}
