package warpgrid

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDefaultShaderSourcesCompile(t *testing.T) {
	src := DefaultShaderSources()
	if len(src.Vertex) == 0 || len(src.Fragment) == 0 {
		t.Fatal("embedded sources missing")
	}
	if _, err := compileUnit(StageVertex, src.Vertex); err != nil {
		t.Errorf("vertex: %v", err)
	}
	if _, err := compileUnit(StageFragment, src.Fragment); err != nil {
		t.Errorf("fragment: %v", err)
	}
}

func TestFetchShaderSourcesFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/v.kage": {Data: []byte("vertex")},
		"shaders/f.kage": {Data: []byte("fragment")},
	}
	got, err := FetchShaderSources(context.Background(), fsys, "shaders/v.kage", "shaders/f.kage")
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Vertex) != "vertex" || string(got.Fragment) != "fragment" {
		t.Errorf("got %q / %q", got.Vertex, got.Fragment)
	}
}

func TestFetchShaderSourcesEmbeddedDefault(t *testing.T) {
	got, err := FetchShaderSources(context.Background(), nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultShaderSources()
	if !bytes.Equal(got.Vertex, def.Vertex) || !bytes.Equal(got.Fragment, def.Fragment) {
		t.Error("empty locations should select the embedded sources")
	}
}

func TestFetchShaderSourcesAbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag.kage")
	if err := os.WriteFile(path, []byte("abs"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FetchShaderSources(context.Background(), nil, "", path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Fragment) != "abs" {
		t.Errorf("Fragment = %q", got.Fragment)
	}
}

func TestFetchShaderSourcesMissing(t *testing.T) {
	fsys := fstest.MapFS{"v.kage": {Data: []byte("v")}}
	_, err := FetchShaderSources(context.Background(), fsys, "v.kage", "nope.kage")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "nope.kage") {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestFetchShaderSourcesHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vertex.kage":
			_, _ = w.Write([]byte("remote vertex"))
		case "/fragment.kage":
			_, _ = w.Write([]byte("remote fragment"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := FetchShaderSources(context.Background(), nil, srv.URL+"/vertex.kage", srv.URL+"/fragment.kage")
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Vertex) != "remote vertex" || string(got.Fragment) != "remote fragment" {
		t.Errorf("got %q / %q", got.Vertex, got.Fragment)
	}

	_, err = FetchShaderSources(context.Background(), nil, srv.URL+"/vertex.kage", srv.URL+"/missing.kage")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want 404 failure", err)
	}
}
