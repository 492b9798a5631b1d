package warpgrid

import (
	"time"

	"go.uber.org/zap"
)

// debugLogEvery is how many frames are aggregated per debug log line.
const debugLogEvery = 60

// frameStats accumulates per-frame timings of the render loop.
// Only populated when the loop runs in debug mode.
type frameStats struct {
	frames  int
	capture time.Duration
	upload  time.Duration
	draw    time.Duration
	raster  RasterStats
}

func (s *frameStats) add(capture, upload, draw time.Duration) {
	s.frames++
	s.capture += capture
	s.upload += upload
	s.draw += draw
}

// log writes the averaged timings at debug level.
func (s *frameStats) log(frame uint64) {
	if s.frames == 0 {
		return
	}
	n := time.Duration(s.frames)
	Logger().Debug("frame stats",
		zap.Uint64("frame", frame),
		zap.Duration("capture", s.capture/n),
		zap.Duration("upload", s.upload/n),
		zap.Duration("draw", s.draw/n),
		zap.Duration("total", (s.capture+s.upload+s.draw)/n),
		zap.Int("cells", s.raster.Drawn),
		zap.Int("culled", s.raster.Culled),
		zap.Int("pending", s.raster.Pending),
		zap.Int("tiles", s.raster.Tiles),
	)
}
