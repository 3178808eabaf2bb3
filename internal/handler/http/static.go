package http

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// staticPattern turns a URL prefix such as "/static/" or "/static" into the
// chi wildcard pattern "/static/*".
func staticPattern(prefix string) string {
	return "/" + strings.Trim(prefix, "/") + "/*"
}

// static serves the static asset directory read-only. Directories are only
// served when they contain an index.html; listings are never produced.
func (h *Handler) static() http.Handler {
	prefix := "/" + strings.Trim(h.assets.URLPrefix, "/")
	files := http.FileServer(noListingFS{http.Dir(h.assets.TargetDir)})
	return http.StripPrefix(prefix, files)
}

type noListingFS struct {
	http.FileSystem
}

func (nfs noListingFS) Open(name string) (http.File, error) {
	f, err := nfs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := nfs.FileSystem.Open(path.Join(name, "index.html"))
	if err != nil {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	_ = index.Close()
	return f, nil
}
