package warpgrid

import (
	"fmt"
	"math/rand/v2"
	"path"
)

// AssetSources expands a numbered asset pattern into count paths under dir,
// numbering from 1: AssetSources("assets", "%d.jpg", 3) yields
// assets/1.jpg, assets/2.jpg, assets/3.jpg.
func AssetSources(dir, pattern string, count int) []string {
	out := make([]string, count)
	for i := range count {
		out[i] = path.Join(dir, fmt.Sprintf(pattern, i+1))
	}
	return out
}

// NewGrid builds the content container: cfg.Count image cells laid out
// row-major in cfg.Columns columns, each showing a source picked at random.
// A zero cfg.Seed picks a random seed.
func NewGrid(cfg GridConfig, sources []string) *Node {
	root := NewContainer("grid")
	if len(sources) == 0 {
		return root
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	stepX := cfg.CellWidth + cfg.Gap
	stepY := cfg.CellHeight + cfg.Gap
	for i := range cfg.Count {
		col := i % cfg.Columns
		row := i / cfg.Columns
		layout := Rect{
			X:      float64(col) * stepX,
			Y:      float64(row) * stepY,
			Width:  cfg.CellWidth,
			Height: cfg.CellHeight,
		}
		src := sources[rng.IntN(len(sources))]
		root.AddChild(NewImageCell(fmt.Sprintf("cell-%d", i), src, layout))
	}
	return root
}
