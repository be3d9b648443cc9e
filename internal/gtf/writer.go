package gtf

import (
	"bufio"
	"io"
)

// Writer writes records as headerless tab-separated lines.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new annotation writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single record.
func (gw *Writer) Write(r Record) error {
	_, err := gw.w.WriteString(r.String() + "\n")
	return err
}

// WriteAll writes records in order.
func (gw *Writer) WriteAll(records []Record) error {
	for _, r := range records {
		if err := gw.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (gw *Writer) Flush() error {
	return gw.w.Flush()
}
