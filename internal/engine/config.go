package engine

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config controls how Run executes a network. The zero Config is valid:
// NumPE defaults to 1 (no fan-out) and a nil Logger silences logging.
type Config struct {
	// NumPE is the number of Processing Elements cooperating on each
	// ci iteration, partitioning output channels between them (§4.6, §5).
	// Values <= 1 run single-threaded.
	NumPE int

	// Logger receives per-layer progress messages. If nil, a disabled
	// logrus.Logger is used so callers never need a nil check.
	Logger *logrus.Logger
}

func (c Config) numPE() int {
	if c.NumPE <= 1 {
		return 1
	}
	return c.NumPE
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
