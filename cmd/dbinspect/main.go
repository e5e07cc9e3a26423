// Package main provides a read-only inspection tool for the Badger database.
//
// It summarizes the catalog and flags book documents still carrying legacy
// interaction shapes (counter likes, wrapper objects) that the repair sweep
// has not touched yet.
//
// Usage:
//
//	DB_PATH=~/bookden/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/bookden/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	bookCount := 0
	legacyCount := 0
	totalLikes := 0
	totalDislikes := 0
	totalRatings := 0
	userCount := 0
	sessionCount := 0
	slideCount := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "user:"):
				userCount++
				continue
			case strings.HasPrefix(key, "session:"):
				sessionCount++
				continue
			case strings.HasPrefix(key, "carousel:"):
				slideCount++
				continue
			case strings.HasPrefix(key, "idx:"):
				continue
			case !strings.HasPrefix(key, "book:"):
				continue
			}

			err := item.Value(func(val []byte) error {
				var doc map[string]any
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}

				bookCount++

				likes, likesOK := fieldAsArray(doc, "likes")
				dislikes, dislikesOK := fieldAsArray(doc, "dislikes")
				ratings, ratingsOK := fieldAsArray(doc, "ratings")

				totalLikes += len(likes)
				totalDislikes += len(dislikes)
				totalRatings += len(ratings)

				if !likesOK || !dislikesOK || !ratingsOK {
					legacyCount++
					if legacyCount <= 5 {
						fmt.Printf("Legacy-shaped book: %v\n", doc["title"])
						fmt.Printf("  Key: %s\n", key)
						fmt.Printf("  likes=%T dislikes=%T ratings=%T\n",
							doc["likes"], doc["dislikes"], doc["ratings"])
						fmt.Println()
					}
				}

				return nil
			})
			if err != nil {
				log.Printf("Error reading book %s: %v", key, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Books: %d (%d with legacy interaction shapes)\n", bookCount, legacyCount)
	fmt.Printf("Likes: %d, Dislikes: %d, Ratings: %d\n", totalLikes, totalDislikes, totalRatings)
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Sessions: %d\n", sessionCount)
	fmt.Printf("Carousel slides: %d\n", slideCount)
	if bookCount > 0 {
		fmt.Printf("Average ratings per book: %.1f\n", float64(totalRatings)/float64(bookCount))
	}
}

// fieldAsArray reports whether the field holds the modern array shape.
// Absent fields count as arrays since the decoder treats absent as empty,
// but an explicit null is a legacy shape the repair sweep will rewrite.
func fieldAsArray(doc map[string]any, field string) ([]any, bool) {
	raw, present := doc[field]
	if !present {
		return nil, true
	}
	arr, ok := raw.([]any)
	return arr, ok
}
