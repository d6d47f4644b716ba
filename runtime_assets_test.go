package extjs

import (
	"io/fs"
	"strings"
	"testing"

	helper "github.com/goliatone/go-extjs/pkg/extjs"
)

func TestRuntimeAssetsFSContainsContainerScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), ContainerScript)
	if err != nil {
		t.Fatalf("expected container script to be readable: %v", err)
	}
	if !strings.Contains(string(data), `"`+helper.ContainerIDParam+`"`) {
		t.Fatalf("expected container script to send the %s parameter", helper.ContainerIDParam)
	}
}

func TestEmbeddedTemplatesListsScripts(t *testing.T) {
	for _, name := range []string{"proxy.tpl", "formpanel.tpl", "container.tpl", "remotevalue.tpl", "includes.tpl"} {
		if _, err := fs.Stat(EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected embedded template %s: %v", name, err)
		}
	}
}
