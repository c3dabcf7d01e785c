// Package assets embeds the browser files shipped with every built site.
package assets

import (
	"embed"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:embed static
var staticFS embed.FS

// SiteFiles are copied into the output directory on every build.
var SiteFiles = []string{"main.js", "styles.css"}

// LiveReloadScript is served by the dev server only.
const LiveReloadScript = "livereload.js"

// Read returns the contents of an embedded asset.
func Read(name string) ([]byte, error) {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", name, err)
	}
	return data, nil
}

// WriteSite writes SiteFiles into dir on fs.
func WriteSite(fs afero.Fs, dir string) error {
	for _, name := range SiteFiles {
		data, err := Read(name)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing asset %s: %w", name, err)
		}
	}
	return nil
}
