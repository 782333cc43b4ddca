package services

import (
	"log"
	"sync"

	"github.com/zealous/backend/internal/keyword"
	"github.com/zealous/backend/internal/storage"
)

// WordList holds the forbidden-term set. The set is read-mostly: every message
// evaluation reads it, and Reload replaces it wholesale (no partial-update
// window). An empty set means matching is disabled — the filter degrades open
// rather than blocking traffic when the list cannot be loaded.
type WordList struct {
	mu    sync.RWMutex
	file  *storage.WordFile
	terms map[string]bool
}

// NewWordList creates a word list backed by the given file and performs the
// initial load. A missing or unreadable file logs a warning and leaves the set
// empty; the service keeps running.
func NewWordList(file *storage.WordFile) *WordList {
	w := &WordList{
		file:  file,
		terms: make(map[string]bool),
	}
	if err := w.Reload(); err != nil {
		log.Printf("[wordlist] load failed, filter disabled: %v", err)
	}
	return w
}

// Reload re-reads the backing file and swaps in the new set. On read failure
// the set becomes empty and the error is returned.
func (w *WordList) Reload() error {
	terms, err := w.file.Load()
	if err != nil {
		w.Replace(nil)
		return err
	}
	w.Replace(terms)
	log.Printf("[wordlist] loaded %d forbidden terms", len(terms))
	return nil
}

// Add appends a term to the backing file and reloads the set.
func (w *WordList) Add(term string) error {
	if err := w.file.Append(term); err != nil {
		return err
	}
	return w.Reload()
}

// Replace swaps the active set for the given terms. Each term goes through the
// same tokenizer as message text, so a term carrying diacritics or punctuation
// lands in the set in the exact form message tokens take.
func (w *WordList) Replace(terms []string) {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		for _, tok := range keyword.Tokenize(t) {
			set[tok] = true
		}
	}
	w.mu.Lock()
	w.terms = set
	w.mu.Unlock()
}

// Len returns the number of loaded terms.
func (w *WordList) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.terms)
}

// ContainsForbiddenContent reports whether any word token of text is a
// forbidden term, and which terms matched. Matching is case-insensitive and
// token-exact: "badwordish" does not match the term "badword". Pure with
// respect to its inputs; no side effects.
func (w *WordList) ContainsForbiddenContent(text string) (bool, []string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.terms) == 0 {
		return false, nil
	}

	var matched []string
	seen := make(map[string]bool)
	for _, tok := range keyword.Tokenize(text) {
		if w.terms[tok] && !seen[tok] {
			seen[tok] = true
			matched = append(matched, tok)
		}
	}
	return len(matched) > 0, matched
}
