package report

import (
	"io"

	"github.com/skillhound/skillhound/internal/model"
)

// Writer renders a ranking report to its configured destination.
//
// Design decision: We use an interface so the rank command can write to
// files, stdout, or both with the same API.
type Writer interface {
	// Write outputs the report. Returns the number of bytes written
	// and any error encountered.
	Write(report *model.RankReport) (int, error)
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
