// Package writers resolves a configured log output into an io.WriteCloser.
package writers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedOutput is returned for outputs that are neither a std stream nor a file.
var ErrUnsupportedOutput = errors.New("unsupported log output")

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

const fileScheme = "file://"

// CreateWriter opens the writer named by output:
//   - "stderr" or "" - os.Stderr
//   - "stdout" - os.Stdout
//   - "file:///path/to/file" or "/path/to/file" - appends to the file, creating directories
//
// Closing a std stream writer is a no-op.
func CreateWriter(output string) (io.WriteCloser, error) {
	if err := Validate(output); err != nil {
		return nil, err
	}

	switch ParseWriterType(output) {
	case WriterTypeStdout:
		return nopCloser{os.Stdout}, nil
	case WriterTypeStderr:
		return nopCloser{os.Stderr}, nil
	default:
		return createFileWriter(filePath(output))
	}
}

// Validate checks the output string without opening anything.
func Validate(output string) error {
	switch ParseWriterType(output) {
	case WriterTypeStdout, WriterTypeStderr:
		return nil
	}
	if strings.HasPrefix(output, fileScheme) {
		if strings.TrimPrefix(output, fileScheme) == "" {
			return fmt.Errorf("%w: empty file path", ErrUnsupportedOutput)
		}
		return nil
	}
	if !isFilePath(output) {
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
	return nil
}

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stderr":
		return WriterTypeStderr
	case "stdout":
		return WriterTypeStdout
	}
	return WriterTypeFile
}

func filePath(output string) string {
	return strings.TrimPrefix(output, fileScheme)
}

// isFilePath determines if the string represents a local file path
func isFilePath(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	return strings.Contains(path, "/") || strings.Contains(path, "\\") || filepath.Ext(path) != ""
}

// createFileWriter creates a file writer, ensuring the directory exists
func createFileWriter(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
