package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const indexFile = "index.html"

// Static - serves the built web client from dir.
// Paths without a matching file, the root and directories fall back to index.html so
// client-side routes work. Directories are never listed.
func Static(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	fsys := os.DirFS(dir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

		if name != "" {
			if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}

		if _, err := os.Stat(filepath.Join(dir, indexFile)); errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, indexFile))
	})
}
