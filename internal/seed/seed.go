package seed

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"chili/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	// MaxDays bounds how far back generated post timestamps spread.
	MaxDays int
}

// Seed populates the database with test data: users, a follow mesh between
// them, posts, and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	if err := createFollowMesh(factory, users); err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rng.Intn(len(users))]
		post, err := factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	if err := createLikes(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, follows, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// createFollowMesh makes each user follow a handful of others so every
// seeded account has a non-trivial feed.
func createFollowMesh(factory *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		n := 2 + factory.rng.Intn(4)
		for i := 0; i < n; i++ {
			target := users[factory.rng.Intn(len(users))]
			if err := factory.CreateFollow(follower, target); err != nil {
				return err
			}
		}
	}
	log.Printf("follow graph created across %d users", len(users))
	return nil
}

// createLikes spreads likes across posts; popular posts get more.
func createLikes(factory *Factory, users []*models.User, posts []*models.Post) error {
	count := 0
	for _, post := range posts {
		n := factory.rng.Intn(len(users) + 1)
		for i := 0; i < n; i++ {
			user := users[factory.rng.Intn(len(users))]
			if err := factory.CreateLike(user, post); err != nil {
				return err
			}
			count++
		}
	}
	log.Printf("%d likes created", count)
	return nil
}

// isDuplicate reports whether err is a unique-constraint violation. Works
// for both postgres and the sqlite driver used in tests.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
