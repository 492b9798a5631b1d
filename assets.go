package warpgrid

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for grid assets
	_ "image/png"
	"io/fs"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrAssetsExhausted is returned by WaitFirst when every decode finished
// without producing the first cell's image.
var ErrAssetsExhausted = errors.New("warpgrid: assets finished without first image")

type assetResult struct {
	source string
	img    image.Image
	err    error
}

// AssetLoader decodes the images referenced by a grid's cells on a bounded
// pool of goroutines. Decoded images are handed back over a channel and only
// attached to nodes by Drain or WaitFirst, which run on the game goroutine,
// so the node tree is never touched concurrently.
type AssetLoader struct {
	fsys    fs.FS
	workers int

	results chan assetResult
	cells   map[string][]*Node
	first   *Node
	failed  map[string]error
}

// NewAssetLoader creates a loader reading from fsys with at most workers
// concurrent decodes (minimum 1).
func NewAssetLoader(fsys fs.FS, workers int) *AssetLoader {
	return &AssetLoader{
		fsys:    fsys,
		workers: max(workers, 1),
		cells:   make(map[string][]*Node),
		failed:  make(map[string]error),
	}
}

// Start begins decoding every distinct source used by the grid's image cells.
// Sources are queued in order of first use, so the first cell's image is
// requested first. Start returns immediately.
func (l *AssetLoader) Start(ctx context.Context, grid *Node) {
	var order []string
	for _, c := range grid.Children() {
		if c.Type != NodeTypeImage || c.Source == "" {
			continue
		}
		if l.first == nil {
			l.first = c
		}
		if _, seen := l.cells[c.Source]; !seen {
			order = append(order, c.Source)
		}
		l.cells[c.Source] = append(l.cells[c.Source], c)
	}

	l.results = make(chan assetResult, len(order))
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.workers)
		for _, src := range order {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				img, err := decodeAsset(l.fsys, src)
				l.results <- assetResult{source: src, img: img, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(l.results)
	}()
}

// Drain attaches every finished decode to its cells without blocking and
// returns the number of cells that became loaded.
func (l *AssetLoader) Drain() int {
	if l.results == nil {
		return 0
	}
	n := 0
	for {
		select {
		case r, ok := <-l.results:
			if !ok {
				l.results = nil
				return n
			}
			n += l.apply(r)
		default:
			return n
		}
	}
}

// WaitFirst blocks until the grid's first image cell has loaded, attaching
// any other decodes that finish meanwhile. It fails if the first image cannot
// be decoded or ctx ends first.
func (l *AssetLoader) WaitFirst(ctx context.Context) error {
	if l.first == nil || l.first.Loaded() {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for first image: %w", ctx.Err())
		case r, ok := <-l.results:
			if !ok {
				l.results = nil
				return ErrAssetsExhausted
			}
			l.apply(r)
			if l.first.Loaded() {
				return nil
			}
			if err, bad := l.failed[l.first.Source]; bad {
				return fmt.Errorf("first image: %w", err)
			}
		}
	}
}

// apply attaches one decode result and returns the number of cells updated.
func (l *AssetLoader) apply(r assetResult) int {
	if r.err != nil {
		l.failed[r.source] = r.err
		Logger().Warn("asset decode failed", zap.String("source", r.source), zap.Error(r.err))
		return 0
	}
	cells := l.cells[r.source]
	for _, c := range cells {
		c.SetImage(r.img)
	}
	return len(cells)
}

func decodeAsset(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}
