package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/normalize"
)

const (
	bookPrefix        = "book:"
	bookByGenrePrefix = "idx:books:genre:"
)

// genreKey builds the genre index key for a book. Genres are not unique,
// so the book ID is part of the key and the value echoes the ID.
// The genre label is slugified so lookups ignore case and punctuation.
func genreKey(genre, bookID string) []byte {
	return []byte(bookByGenrePrefix + normalize.Genre(genre) + ":" + bookID)
}

// Book Operations

// CreateBook creates a new book
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	// Check if it already exists
	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	// Use transaction to create book and indices atomically
	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		if book.Genre != "" {
			if err := txn.Set(genreKey(book.Genre, book.ID), []byte(book.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	s.indexForSearch(ctx, book)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("genre", book.Genre),
		)
	}
	return nil
}

// ImportRawBook writes a book document as-is, without decoding it into the
// Book type first. The seed importer uses this to load documents exported
// from the legacy platform, whose interaction fields may not be arrays;
// reads repair the shape on first touch. The genre index is written when
// the document carries a string genre.
func (s *Store) ImportRawBook(ctx context.Context, id string, doc map[string]any) error {
	if id == "" {
		return fmt.Errorf("import book: empty ID")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal imported book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(bookPrefix+id), data); err != nil {
			return err
		}
		if genre, ok := doc["genre"].(string); ok && genre != "" {
			return txn.Set(genreKey(genre, id), []byte(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import book: %w", err)
	}
	return nil
}

// GetBook retrieves a book by ID
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	key := []byte(bookPrefix + id)

	var book domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return decodeBook(val, &book)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// UpdateBook updates an existing book
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	// Get old book for index updates
	oldBook, err := s.GetBook(ctx, book.ID)
	if err != nil {
		return err
	}

	// Use transaction to update book and indices atomically
	err = s.db.Update(func(txn *badger.Txn) error {
		book.Touch()
		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Update genre index if genre changed
		if oldBook.Genre != book.Genre {
			if oldBook.Genre != "" {
				if err := txn.Delete(genreKey(oldBook.Genre, book.ID)); err != nil {
					return err
				}
			}
			if book.Genre != "" {
				if err := txn.Set(genreKey(book.Genre, book.ID), []byte(book.ID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	s.indexForSearch(ctx, book)

	if s.logger != nil {
		s.logger.Info("book updated", "id", book.ID, "title", book.Title)
	}

	return nil
}

// DeleteBook deletes a book, its indices, and any carousel slide showing it
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}

	// Remove the carousel slide for the book, if any
	slide, err := s.Slides.GetByIndex(ctx, "book", id)
	if err == nil {
		if err := s.Slides.Delete(ctx, slide.ID); err != nil {
			return fmt.Errorf("delete carousel slide: %w", err)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get carousel slide for book: %w", err)
	}

	// Delete book and indices
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(bookPrefix + id)); err != nil {
			return err
		}

		if book.Genre != "" {
			if err := txn.Delete(genreKey(book.Genre, id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteBook(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove book from search index", "id", id, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "id", id, "title", book.Title)
	}

	return nil
}

// BookExists checks if a book exists by ID
func (s *Store) BookExists(ctx context.Context, id string) (bool, error) {
	key := []byte(bookPrefix + id)
	return s.exists(key)
}

// IncrementViews bumps a book's view counter by one inside a single
// transaction and returns the new count.
func (s *Store) IncrementViews(ctx context.Context, id string) (int64, error) {
	key := []byte(bookPrefix + id)

	var views int64
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var book domain.Book
		err = item.Value(func(val []byte) error {
			return decodeBook(val, &book)
		})
		if err != nil {
			return err
		}

		book.Views++
		views = book.Views

		data, err := json.Marshal(&book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, ErrBookNotFound
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// ListBooks returns a page of books ordered by ID.
func (s *Store) ListBooks(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Book], error) {
	params.Validate()

	var books []*domain.Book
	var lastKey string
	var hasMore bool

	prefix := []byte(bookPrefix)

	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = params.Limit + 1 // Fetch one extra to detect more pages

		it := txn.NewIterator(opts)
		defer it.Close()

		if startKey != "" {
			it.Seek([]byte(startKey))
			// Skip the cursor key itself, it was returned on the previous page
			if it.Valid() && string(it.Item().Key()) == startKey {
				it.Next()
			}
		} else {
			it.Seek(prefix)
		}

		count := 0
		for ; it.ValidForPrefix(prefix); it.Next() {
			if count == params.Limit {
				hasMore = true
				break
			}

			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(val []byte) error {
				var book domain.Book
				if err := decodeBook(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				lastKey = key
				return nil
			})
			if err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := &PaginatedResult[*domain.Book]{
		Items:   books,
		HasMore: hasMore,
	}
	if hasMore {
		result.NextCursor = EncodeCursor(lastKey)
	}
	return result, nil
}

// ListAllBooks returns every book in the store. The catalog is small
// enough that callers sort and filter in memory.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book

	prefix := []byte(bookPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := decodeBook(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}
	return books, nil
}

// ListBooksByGenre returns all books carrying the given genre,
// resolved through the genre index.
func (s *Store) ListBooksByGenre(ctx context.Context, genre string) ([]*domain.Book, error) {
	var ids []string

	prefix := []byte(bookByGenrePrefix + normalize.Genre(genre) + ":")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books by genre: %w", err)
	}

	books := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if errors.Is(err, ErrBookNotFound) {
			continue // Stale index entry
		}
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// indexForSearch updates the search index for a book. Index failures are
// logged and swallowed so a search outage never blocks writes.
func (s *Store) indexForSearch(ctx context.Context, book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexBook(ctx, book); err != nil && s.logger != nil {
		s.logger.Warn("failed to index book for search", "id", book.ID, "error", err)
	}
}
