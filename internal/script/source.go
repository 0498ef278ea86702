package script

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/robbyt/go-polyscript/platform/script/loader"
)

// LoadSource reads script source from uri. Supported forms are http(s) URLs,
// file:// URIs and plain filesystem paths. Relative paths resolve against the
// working directory.
func LoadSource(uri string) (string, error) {
	l, err := newLoader(uri)
	if err != nil {
		return "", err
	}

	reader, err := l.GetReader()
	if err != nil {
		return "", fmt.Errorf("failed to open script source %s: %w", uri, err)
	}
	defer func() { _ = reader.Close() }()

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read script source %s: %w", uri, err)
	}
	return string(body), nil
}

func newLoader(uri string) (loader.Loader, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("empty script source URI")
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return loader.NewFromHTTP(uri)
	}

	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = absPath
	}
	return loader.NewFromDisk(path)
}
