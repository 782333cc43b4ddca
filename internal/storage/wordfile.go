package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WordFile provides thread-safe access to a newline-separated term list on disk.
type WordFile struct {
	mu   sync.RWMutex
	path string
}

// NewWordFile creates a word file handle at the specified path. The parent
// directory is created if missing; the file itself may not exist yet.
func NewWordFile(path string) (*WordFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &WordFile{path: path}, nil
}

// Load reads every non-blank line, trimmed and lower-cased. A missing file is
// not an error and yields an empty list.
func (f *WordFile) Load() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var terms []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		term := strings.ToLower(strings.TrimSpace(sc.Text()))
		if term != "" {
			terms = append(terms, term)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}

// Append adds a term to the list and rewrites the file atomically
// (write to temp file, then rename).
func (f *WordFile) Append(term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return fmt.Errorf("empty term")
	}

	terms, err := f.Load()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range terms {
		if t == term {
			return nil // already listed
		}
	}
	terms = append(terms, term)

	tempFile := f.path + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	for _, t := range terms {
		fmt.Fprintln(w, t)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	// Atomic rename
	return os.Rename(tempFile, f.path)
}

// Exists checks if the word file exists
func (f *WordFile) Exists() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.path)
	return err == nil
}
