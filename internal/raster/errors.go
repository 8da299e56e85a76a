package raster

import (
	"errors"
	"io"
	"log"
	"os"
)

var (
	// ErrInvalidArgument reports a numeric argument outside an operation's
	// domain. The operation leaves the image unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch reports two images whose sizes must agree but do not.
	ErrDimensionMismatch = errors.New("image dimensions do not match")
)

var logger = log.New(os.Stderr, "raster: ", log.Ldate|log.Ltime|log.Lshortfile)

// SetLogOutput redirects the diagnostics written for invalid arguments. A nil
// writer restores the default of stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)
}
