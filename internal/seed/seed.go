package seed

import (
	"fmt"
	"log"

	"witter/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumWeets    int
	ShouldClean bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
	}
}

// ClearAll wipes every seeded table, edges first to respect foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{"reweets", "favorites", "tabs", "followers", "weets", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("existing data cleared")
	return nil
}

// Seed creates users, a follow mesh, weets, and reaction edges, optionally
// wiping existing data first.
func (s *Seeder) Seed(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("%d users created", len(users))

	if err := s.seedFollowMesh(users); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}

	weets, err := s.seedWeets(users, opts.NumWeets)
	if err != nil {
		return fmt.Errorf("seed weets: %w", err)
	}
	log.Printf("%d weets created", len(weets))

	if err := s.seedReactions(users, weets); err != nil {
		return fmt.Errorf("seed reactions: %w", err)
	}

	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedFollowMesh gives every user a handful of random followees.
func (s *Seeder) seedFollowMesh(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		n := s.factory.rand.Intn(len(users)/2) + 1
		for i := 0; i < n; i++ {
			followee := users[s.factory.rand.Intn(len(users))]
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedWeets(users []*models.User, n int) ([]*models.Weet, error) {
	weets := make([]*models.Weet, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		weet, err := s.factory.CreateWeet(author)
		if err != nil {
			return nil, err
		}
		weets = append(weets, weet)
	}
	return weets, nil
}

// seedReactions sprinkles reaction edges over the weets, roughly one
// reaction of each kind per two weets.
func (s *Seeder) seedReactions(users []*models.User, weets []*models.Weet) error {
	kinds := []models.ReactionKind{models.ReactionReweet, models.ReactionFavorite, models.ReactionTab}
	for _, kind := range kinds {
		for i := 0; i < len(weets)/2; i++ {
			user := users[s.factory.rand.Intn(len(users))]
			weet := weets[s.factory.rand.Intn(len(weets))]
			if err := s.factory.CreateReaction(kind, user, weet); err != nil {
				return err
			}
		}
	}
	return nil
}
