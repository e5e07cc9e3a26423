package store

import (
	"context"
	"encoding/json/v2"
	"encoding/json/jsontext"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// Interaction fields that older documents stored as scalars or objects
// instead of arrays. Reads and writes expect arrays, so anything else
// gets reset to an empty array.
var interactionFields = []string{"likes", "dislikes", "ratings"}

var emptyArray = jsontext.Value(`[]`)

// repairFields resets every interaction field that is missing or not an
// array. Returns the names of the fields it changed.
func repairFields(doc map[string]jsontext.Value) []string {
	var repaired []string
	for _, field := range interactionFields {
		raw, ok := doc[field]
		if ok && raw.Kind() == '[' {
			continue
		}
		doc[field] = emptyArray
		repaired = append(repaired, field)
	}
	return repaired
}

// RepairBookShape rewrites a book document whose interaction fields
// carry a legacy non-array shape. The read, check, and conditional
// write happen in one transaction; documents that are already well
// formed are not rewritten.
func (s *Store) RepairBookShape(ctx context.Context, id string) error {
	_, err := s.repairBook(ctx, id)
	return err
}

// repairBook does the work for RepairBookShape and reports which fields
// were rewritten.
func (s *Store) repairBook(ctx context.Context, id string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(bookPrefix + id)

	var repaired []string
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var doc map[string]jsontext.Value
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
		if err != nil {
			return fmt.Errorf("unmarshal book document: %w", err)
		}

		repaired = repairFields(doc)
		if len(repaired) == 0 {
			return nil
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal repaired document: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("repair book shape: %w", err)
	}

	if len(repaired) > 0 && s.logger != nil {
		s.logger.Info("repaired legacy book document", "id", id, "fields", repaired)
	}
	return repaired, nil
}

// RepairAllBookShapes walks every book document and repairs legacy
// interaction shapes, returning how many documents needed rewriting.
// Run at startup so list endpoints never see a malformed document.
func (s *Store) RepairAllBookShapes(ctx context.Context) (int, error) {
	var ids []string

	prefix := []byte(bookPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key())[len(bookPrefix):])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan books for repair: %w", err)
	}

	repaired := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		fields, err := s.repairBook(ctx, id)
		if err != nil {
			// Best effort, keep going
			if s.logger != nil {
				s.logger.Warn("failed to repair book document", "id", id, "error", err)
			}
			continue
		}
		if len(fields) > 0 {
			repaired++
		}
	}
	return repaired, nil
}

// decodeBook unmarshals a book document. A strict decode is tried
// first; documents still carrying legacy interaction shapes fall back
// to a coercing decode that treats the bad fields as empty.
func decodeBook(val []byte, book *domain.Book) error {
	if err := json.Unmarshal(val, book); err == nil {
		return nil
	}

	var doc map[string]jsontext.Value
	if err := json.Unmarshal(val, &doc); err != nil {
		return fmt.Errorf("unmarshal book document: %w", err)
	}

	repairFields(doc)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal coerced document: %w", err)
	}
	if err := json.Unmarshal(data, book); err != nil {
		return fmt.Errorf("unmarshal coerced book: %w", err)
	}
	return nil
}
