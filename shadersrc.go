package warpgrid

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

//go:embed shaders/*.kage
var embeddedShaders embed.FS

const (
	defaultVertexPath   = "shaders/vertex.kage"
	defaultFragmentPath = "shaders/fragment.kage"
)

// ShaderSources holds the text of both shader stages.
type ShaderSources struct {
	Vertex   []byte
	Fragment []byte
}

// DefaultShaderSources returns the sources embedded in the module.
func DefaultShaderSources() ShaderSources {
	vert, _ := embeddedShaders.ReadFile(defaultVertexPath)
	frag, _ := embeddedShaders.ReadFile(defaultFragmentPath)
	return ShaderSources{Vertex: vert, Fragment: frag}
}

// FetchShaderSources loads both stages concurrently. Each location is an
// http(s) URL, an absolute file path, a path inside fsys, or empty for the
// embedded default. The
// first failure cancels the other fetch and is returned.
func FetchShaderSources(ctx context.Context, fsys fs.FS, vertex, fragment string) (ShaderSources, error) {
	var out ShaderSources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, err := fetchShaderText(gctx, fsys, vertex, defaultVertexPath)
		out.Vertex = src
		return err
	})
	g.Go(func() error {
		src, err := fetchShaderText(gctx, fsys, fragment, defaultFragmentPath)
		out.Fragment = src
		return err
	})
	if err := g.Wait(); err != nil {
		return ShaderSources{}, err
	}
	return out, nil
}

func fetchShaderText(ctx context.Context, fsys fs.FS, location, fallback string) ([]byte, error) {
	switch {
	case location == "":
		return embeddedShaders.ReadFile(fallback)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return fetchHTTP(ctx, location)
	case filepath.IsAbs(location):
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("load shader %s: %w", location, err)
		}
		return data, nil
	default:
		if fsys == nil {
			return nil, fmt.Errorf("load shader %s: no file system", location)
		}
		data, err := fs.ReadFile(fsys, location)
		if err != nil {
			return nil, fmt.Errorf("load shader %s: %w", location, err)
		}
		return data, nil
	}
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch shader %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch shader %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch shader %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch shader %s: %w", url, err)
	}
	return data, nil
}
