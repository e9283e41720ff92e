package output

import (
	"os"
	"path/filepath"

	"github.com/fkie-cad/loadmeter"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
)

// PNGSink writes every snapshot as a PNG chart to a file. The file is
// replaced atomically, so readers never see a partially written image.
type PNGSink struct {
	path   string
	width  int
	height int
}

// NewPNGSink creates a new PNGSink for the given path. Non-positive sizes
// are replaced by DefaultChartWidth and DefaultChartHeight.
func NewPNGSink(path string, width, height int) (*PNGSink, error) {
	if path == "" {
		return nil, errors.New("png output path must not be empty")
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}
	return &PNGSink{
		path:   path,
		width:  width,
		height: height,
	}, nil
}

// Path returns the path of the chart file.
func (s *PNGSink) Path() string {
	return s.path
}

// Render writes snap to the chart file.
func (s *PNGSink) Render(snap loadmeter.Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return errors.Errorf("could not create temporary chart file, reason: %w", err)
	}

	err = RenderPNG(tmp, snap, s.width, s.height)
	err = errors.NewMultiError(err, tmp.Close())
	if err == nil {
		err = os.Rename(tmp.Name(), s.path)
	}
	if err != nil {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
			logrus.WithError(rmErr).WithField("path", tmp.Name()).Warn("Could not remove temporary chart file.")
		}
		return errors.Errorf("could not write chart to \"%s\", reason: %w", s.path, err)
	}
	return nil
}
