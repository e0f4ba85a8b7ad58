package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVWriter appends FrameStats records to w, writing the header once.
type CSVWriter struct {
	w             io.Writer
	headerWritten bool
	rows          int
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write appends one record.
func (c *CSVWriter) Write(s FrameStats) error {
	records := []FrameStats{s}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
		c.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
	}
	c.rows++
	return nil
}

// Rows returns the number of records written so far.
func (c *CSVWriter) Rows() int { return c.rows }

// YAMLWriter is implemented by configurations able to dump themselves.
type YAMLWriter interface {
	WriteYAML(path string) error
}

// Output is a run directory holding frames.csv and config.yaml.
// A nil *Output discards everything, so callers need no checks when output is disabled.
type Output struct {
	dir    string
	file   *os.File
	frames *CSVWriter
}

// NewOutput creates dir and frames.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	return &Output{dir: dir, file: f, frames: NewCSVWriter(f)}, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (o *Output) WriteConfig(cfg YAMLWriter) error {
	if o == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(o.dir, "config.yaml"))
}

// WriteFrame appends one record to frames.csv.
func (o *Output) WriteFrame(s FrameStats) error {
	if o == nil {
		return nil
	}
	return o.frames.Write(s)
}

// Dir returns the output directory path.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

func (o *Output) Close() error {
	if o == nil || o.file == nil {
		return nil
	}
	return o.file.Close()
}
