package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// SPAHandler serves files under staticRoot when they exist and falls back to
// the root index.html for everything else, so client-side routes resolve.
func SPAHandler(staticRoot string) http.HandlerFunc {
	index := filepath.Join(staticRoot, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		// Clean with a leading slash so ".." cannot escape the root
		path := filepath.Join(staticRoot, filepath.Clean("/"+r.URL.Path))

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}

		http.ServeFile(w, r, index)
	}
}
