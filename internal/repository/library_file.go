package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// libraryDocument is the on-disk layout of a library file.
type libraryDocument struct {
	Tables    []*entities.Table         `json:"tables"`
	Relations []*entities.Relation      `json:"relations"`
	Policy    *entities.SelectionPolicy `json:"policy,omitempty"`
}

// LibraryFile is a single-user library kept in a JSON file. It serves
// tables, relations and the policy, and writes statistics back to the file.
// User IDs are ignored.
type LibraryFile struct {
	mu   sync.RWMutex
	path string
	doc  libraryDocument
	word map[int64]*entities.Word
}

// OpenLibraryFile reads and checks the library at path.
func OpenLibraryFile(path string) (*LibraryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc libraryDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal library JSON: %w", err)
	}

	words, err := indexLibrary(&doc)
	if err != nil {
		return nil, err
	}

	return &LibraryFile{path: path, doc: doc, word: words}, nil
}

// indexLibrary fills in word table IDs and rejects inconsistent documents.
func indexLibrary(doc *libraryDocument) (map[int64]*entities.Word, error) {
	tables := make(map[int64]struct{}, len(doc.Tables))
	words := make(map[int64]*entities.Word)

	for i, t := range doc.Tables {
		if t == nil {
			return nil, fmt.Errorf("tables[%d]: %w", i, ErrNullEntry)
		}
		if _, dup := tables[t.ID]; dup {
			return nil, fmt.Errorf("duplicate table %d", t.ID)
		}
		tables[t.ID] = struct{}{}

		for j, w := range t.Words {
			if w == nil {
				return nil, fmt.Errorf("table %d: words[%d]: %w", t.ID, j, ErrNullEntry)
			}
			if _, dup := words[w.ID]; dup {
				return nil, fmt.Errorf("duplicate word %d", w.ID)
			}
			w.TableID = t.ID
			words[w.ID] = w
		}
	}

	for i, rel := range doc.Relations {
		if rel == nil {
			return nil, fmt.Errorf("relations[%d]: %w", i, ErrNullEntry)
		}
		if _, ok := tables[rel.TableID]; !ok {
			return nil, fmt.Errorf("relation %d: table %d: %w", rel.ID, rel.TableID, ErrTableNotFound)
		}
		if len(rel.QuestionColumns) == 0 || len(rel.AnswerColumns) == 0 {
			return nil, fmt.Errorf("relation %d needs question and answer columns", rel.ID)
		}
	}

	return words, nil
}

// GetTables returns the tables of the library.
func (r *LibraryFile) GetTables(_ context.Context, _ int64) ([]*entities.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Tables, nil
}

// GetRelations returns the relations of the library.
func (r *LibraryFile) GetRelations(_ context.Context, _ int64) ([]*entities.Relation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Relations, nil
}

// GetByUserID returns the stored policy or ErrPolicyNotFound.
func (r *LibraryFile) GetByUserID(_ context.Context, _ int64) (*entities.SelectionPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.doc.Policy == nil {
		return nil, ErrPolicyNotFound
	}
	p := *r.doc.Policy
	return &p, nil
}

// Upsert stores the policy and saves the file.
func (r *LibraryFile) Upsert(_ context.Context, _ int64, p *entities.SelectionPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.doc.Policy = &cp
	return r.save()
}

// SaveStatistics applies the updates and saves the file. Unknown words
// abort the update before anything changes.
func (r *LibraryFile) SaveStatistics(_ context.Context, updates []entities.StatisticsUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range updates {
		if _, ok := r.word[u.WordID]; !ok {
			return fmt.Errorf("word %d: %w", u.WordID, ErrWordNotFound)
		}
	}
	for _, u := range updates {
		r.word[u.WordID].Stats = u.Stats
	}

	return r.save()
}

// save writes the document next to the target and renames it into place.
func (r *LibraryFile) save() error {
	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save library: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	return nil
}
