package extjs

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-extjs/pkg/scripts"
)

// Theme asset keys resolved through theme.RendererConfig.AssetURL.
const (
	AssetStylesheet = "ext.stylesheet"
	AssetTheme      = "ext.theme"
	AssetAdapter    = "ext.adapter"
	AssetAll        = "ext.all"
	AssetContainer  = "ext.ux.container"
)

var (
	stylesheetAssets = []string{AssetStylesheet, AssetTheme}
	scriptAssets     = []string{AssetAdapter, AssetAll, AssetContainer}
)

// ThemeIncludes returns the <link> and <script> tags loading ExtJS and the
// container extension. Keys the theme does not resolve are skipped; without
// a theme the result is empty.
func (h *Helper) ThemeIncludes() (string, error) {
	if h.theme == nil || h.theme.AssetURL == nil {
		return "", nil
	}
	data := scripts.IncludesData{
		Stylesheets: h.resolveAssets(stylesheetAssets),
		Scripts:     h.resolveAssets(scriptAssets),
	}
	if len(data.Stylesheets) == 0 && len(data.Scripts) == 0 {
		return "", nil
	}
	out, err := scripts.Render(h.renderer, scripts.Includes, data)
	if err != nil {
		return "", fmt.Errorf("extjs: %w", err)
	}
	return out, nil
}

func (h *Helper) resolveAssets(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if resolved := strings.TrimSpace(h.theme.AssetURL(key)); resolved != "" {
			out = append(out, resolved)
		}
	}
	return out
}
