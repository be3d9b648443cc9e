package seqstore

import (
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// DefaultLineWidth matches samtools faidx output.
const DefaultLineWidth = 60

// FASTAWriter writes named sequences as wrapped FASTA records.
type FASTAWriter struct {
	w *fasta.Writer
}

// NewFASTAWriter creates a FASTA writer wrapping lines at width bases.
func NewFASTAWriter(w io.Writer, width int) *FASTAWriter {
	if width <= 0 {
		width = DefaultLineWidth
	}
	return &FASTAWriter{w: fasta.NewWriter(w, width)}
}

// Write writes one record with the given header name.
func (fw *FASTAWriter) Write(name string, bases []byte) error {
	s := linear.NewSeq(name, alphabet.BytesToLetters(bases), alphabet.DNAredundant)
	_, err := fw.w.Write(s)
	return err
}
