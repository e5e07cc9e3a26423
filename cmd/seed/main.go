// Package main provides a tool to seed the database with sample catalog data.
//
// This creates a small book catalog plus optional test readers, then layers
// realistic interactions on top: likes, dislikes, star ratings, and view
// counts. Useful for exercising the trending, carousel, and rating surfaces
// against non-empty data.
//
// Usage:
//
//	DB_PATH=~/bookden/db go run ./cmd/seed
//	DB_PATH=~/bookden/db go run ./cmd/seed --create-users  # Also create test readers
//	DB_PATH=~/bookden/db go run ./cmd/seed --legacy        # Also import legacy-shaped docs
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/id"
	"github.com/bookdenapp/bookden-server/internal/store"
)

var (
	createUsers  = flag.Bool("create-users", false, "Create test readers for interaction seeding")
	importLegacy = flag.Bool("legacy", false, "Import legacy-shaped book documents to exercise the shape repair path")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/bookden/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *createUsers {
		createTestUsers(ctx, s)
	}

	seedCatalog(ctx, s)

	if *importLegacy {
		importLegacyBooks(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to get users: %v", err)
	}
	if len(users) == 0 {
		log.Fatal("No users found in database. Create a user first or pass --create-users.")
	}

	fmt.Printf("Found %d users\n", len(users))

	books, err := s.ListAllBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	if len(books) == 0 {
		log.Fatal("No books in database after seeding, nothing to interact with")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seedInteractions(ctx, s, users, books, rng)
	seedViews(ctx, s, books, rng)

	fmt.Println("\nSeeding complete!")
}

// sampleBooks is the seed catalog. Descriptions stay short on purpose;
// real uploads carry the long-form text.
var sampleBooks = []domain.Book{
	{Title: "The Hollow Library", Author: "Mara Voss", Genre: "Fantasy", Description: "A cartographer maps a library that rearranges itself at night.", Tags: []string{"magic", "libraries"}},
	{Title: "Saltwater Circuit", Author: "Ibrahim Keita", Genre: "Science Fiction", Description: "Tidal engineers race to reboot a drowned city's power grid.", Tags: []string{"climate", "engineering"}},
	{Title: "Ninety Days of Dust", Author: "Clara Ostrander", Genre: "Western", Description: "A cattle drive goes wrong in every way a cattle drive can."},
	{Title: "The Winnowing Room", Author: "Hal Brennan", Genre: "Mystery", Description: "Six applicants, one locked interview room, no interviewer.", Tags: []string{"locked-room"}},
	{Title: "Letters to a Quiet House", Author: "June Arceneaux", Genre: "Literary Fiction", Description: "A restorer writes to the previous owner of the house she is fixing."},
	{Title: "Orbitfall", Author: "Dmitri Aslanov", Genre: "Science Fiction", Description: "Salvage crews compete for the wreck of a generation ship.", Tags: []string{"space", "salvage"}},
	{Title: "The Fernery", Author: "Priya Raghunathan", Genre: "Horror", Description: "A Victorian glasshouse remembers everyone who has watered it."},
	{Title: "Wind Over the Causeway", Author: "Tomas Eriksen", Genre: "Fantasy", Description: "The last bridge-singer must hold a causeway open through a storm season.", Tags: []string{"music", "storms"}},
	{Title: "Practical Knots", Author: "Rosa Delgado", Genre: "Nonfiction", Description: "Forty knots, when to use them, and when a knot is the wrong answer.", Tags: []string{"reference"}},
	{Title: "The Borrowed Coast", Author: "Anne Whitlock", Genre: "Mystery", Description: "A small-town archivist finds her own obituary in the 1974 records."},
}

// seedCatalog inserts the sample books, skipping titles that already exist.
func seedCatalog(ctx context.Context, s *store.Store) {
	fmt.Println("\n=== Seeding Catalog ===")

	existing, err := s.ListAllBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list existing books: %v", err)
	}
	existingTitles := make(map[string]bool, len(existing))
	for _, b := range existing {
		existingTitles[b.Title] = true
	}

	created := 0
	for _, sample := range sampleBooks {
		if existingTitles[sample.Title] {
			fmt.Printf("  Book %q already exists, skipping\n", sample.Title)
			continue
		}

		book := sample
		book.ID = id.MustGenerate("book")
		book.InitTimestamps()
		book.Likes = []string{}
		book.Dislikes = []string{}
		book.Ratings = []domain.RatingEntry{}

		if err := s.CreateBook(ctx, &book); err != nil {
			log.Printf("  Failed to create book %q: %v", book.Title, err)
			continue
		}
		created++
		fmt.Printf("  Created book: %s (%s)\n", book.Title, book.ID)
	}

	fmt.Printf("Created %d books\n", created)
}

// legacyDocs mimic documents written by older clients, where interaction
// fields were counters or wrapper objects instead of user arrays. The store
// repairs these on first read; importing a few keeps that path honest.
var legacyDocs = []map[string]any{
	{
		"title":    "Migration Test: Counter Likes",
		"author":   "Legacy Writer",
		"genre":    "Mystery",
		"likes":    7,
		"dislikes": map[string]any{"count": 2},
		"ratings":  "none",
	},
	{
		"title":    "Migration Test: Null Fields",
		"author":   "Legacy Writer",
		"genre":    "Fantasy",
		"likes":    nil,
		"dislikes": nil,
		"ratings":  nil,
	},
}

func importLegacyBooks(ctx context.Context, s *store.Store) {
	fmt.Println("\n=== Importing Legacy Documents ===")

	for _, doc := range legacyDocs {
		bookID := id.MustGenerate("book")
		if err := s.ImportRawBook(ctx, bookID, doc); err != nil {
			log.Printf("  Failed to import legacy doc %q: %v", doc["title"], err)
			continue
		}
		fmt.Printf("  Imported legacy doc: %v (%s)\n", doc["title"], bookID)
	}
}

// seedInteractions gives each user reactions and ratings on a random slice
// of the catalog. All mutation goes through the domain methods so the
// like/dislike sets stay disjoint.
func seedInteractions(ctx context.Context, s *store.Store, users []*domain.User, books []*domain.Book, rng *rand.Rand) {
	fmt.Println("\n=== Seeding Interactions ===")

	for _, user := range users {
		shuffled := make([]*domain.Book, len(books))
		copy(shuffled, books)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		numBooks := min(3+rng.Intn(4), len(shuffled))
		touched := 0

		for _, book := range shuffled[:numBooks] {
			// Fresh read so concurrent seeding of the same book composes
			current, err := s.GetBook(ctx, book.ID)
			if err != nil {
				log.Printf("  Failed to load book %s: %v", book.ID, err)
				continue
			}

			// 60% like, 20% dislike, 20% no reaction
			switch roll := rng.Float32(); {
			case roll < 0.6:
				current.ApplyReaction(user.ID, domain.ReactionLike)
			case roll < 0.8:
				current.ApplyReaction(user.ID, domain.ReactionDislike)
			}

			// 70% chance of a rating, skewed toward the top end
			if rng.Float32() < 0.7 {
				score := 2 + rng.Intn(4)
				current.UpsertRating(user.ID, score)
			}

			if err := s.UpdateBook(ctx, current); err != nil {
				log.Printf("  Failed to update book %s: %v", current.ID, err)
				continue
			}
			touched++
		}

		fmt.Printf("  %s interacted with %d books\n", user.Name(), touched)
	}
}

// seedViews bumps view counters so trending has something to rank.
func seedViews(ctx context.Context, s *store.Store, books []*domain.Book, rng *rand.Rand) {
	fmt.Println("\n=== Seeding Views ===")

	for _, book := range books {
		views := 5 + rng.Intn(200)
		for range views {
			if _, err := s.IncrementViews(ctx, book.ID); err != nil {
				log.Printf("  Failed to bump views for %s: %v", book.ID, err)
				break
			}
		}
		fmt.Printf("  %s: +%d views\n", book.Title, views)
	}
}

// testUserNames are display names for generated test readers.
var testUserNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
}

// createTestUsers creates reader accounts with a shared known password.
func createTestUsers(ctx context.Context, s *store.Store) {
	fmt.Println("\n=== Creating Test Readers ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return
	}

	for i, name := range testUserNames {
		email := fmt.Sprintf("test%d@example.com", i+1)

		if existing, _ := s.GetUserByEmail(ctx, email); existing != nil {
			fmt.Printf("  User %s already exists, skipping\n", email)
			continue
		}

		user := &domain.User{
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  name,
			Role:         domain.RoleUser,
		}
		user.ID = id.MustGenerate("usr")
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", name, err)
			continue
		}

		fmt.Printf("  Created reader: %s (%s)\n", name, email)
	}

	fmt.Println("=== Test Readers Created ===")
}
