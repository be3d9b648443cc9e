package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// pendingFile is an output written under a temporary name and moved into
// place by commit.
type pendingFile struct {
	f     *os.File
	final string
	done  bool
}

func createPending(path string) (*pendingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp output for %s: %w", path, err)
	}
	return &pendingFile{f: f, final: path}, nil
}

// close closes the temporary file without moving it.
func (p *pendingFile) close() error {
	if err := p.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p.final, err)
	}
	return nil
}

func (p *pendingFile) commit() error {
	if err := os.Rename(p.f.Name(), p.final); err != nil {
		return fmt.Errorf("rename %s: %w", p.final, err)
	}
	p.done = true
	return nil
}

// abort removes the temporary file unless it was committed.
func (p *pendingFile) abort() {
	if p.done {
		return
	}
	p.f.Close()
	os.Remove(p.f.Name())
}

// commitAll renames every file into place. Files are closed first so a
// late write error leaves no output behind.
func commitAll(files ...*pendingFile) error {
	for _, p := range files {
		if err := p.close(); err != nil {
			return err
		}
	}
	for _, p := range files {
		if err := p.commit(); err != nil {
			return err
		}
	}
	return nil
}
