package extjs

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// ContainerScript is the runtime asset defining Ext.ux.ContainerWindow and
// Ext.ux.ContainerPanel.
const ContainerScript = "Ext.ux.Container.js"

// RuntimeAssetsFS exposes the browser side extensions (committed under
// pkg/runtime/assets) so Go applications can serve them next to ExtJS.
//
// Typical mount:
//
//	mux.Handle("/ext-ux/",
//	  http.StripPrefix("/ext-ux/",
//	    http.FileServerFS(extjs.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
