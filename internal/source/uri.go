package source

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a file:// URI with
// percent-encoded segments. Windows drive paths become file:///C:/... and
// UNC paths become file://server/share/...
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if runtime.GOOS == "windows" && strings.HasPrefix(abs, `\\`) {
		return "file://" + escapeSegments(filepath.ToSlash(strings.TrimPrefix(abs, `\\`)))
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return "file://" + escapeSegments(abs)
}

func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// URIToPath converts a file:// URI to a file system path. Other strings
// are treated leniently as paths with an optional file:// prefix.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return lenientPath(uri)
	}
	if u.Host != "" {
		if runtime.GOOS == "windows" {
			return `\\` + u.Host + strings.ReplaceAll(u.Path, "/", `\`)
		}
		return u.Host + u.Path
	}
	return lenientPath(u.Path)
}

func lenientPath(p string) string {
	p = strings.TrimPrefix(p, "file://")
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
