// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"witter/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets. It satisfies the
// sign-up rules, so seeded accounts can log in through the normal flow.
const DemoPassword = "Password123!"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// fakeHandle generates a unique alphanumeric handle within the 8..20 bound.
func (f *Factory) fakeHandle() string {
	base := strings.ToLower(gofakeit.LetterN(8))
	return fmt.Sprintf("%s%04d", base, f.rand.Intn(10000))
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)

	handle := f.fakeHandle()
	user := &models.User{
		Handle:          handle,
		Username:        gofakeit.FirstName() + " " + gofakeit.LastName(),
		Password:        string(hashed),
		Email:           fmt.Sprintf("%s@%s.com", handle, strings.ToLower(gofakeit.LetterN(6))),
		UserDescription: gofakeit.Sentence(10),
		ProfileImage:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s.png", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateWeet constructs and persists a sample weet for the given user with a
// realistic creation-time spread over the past days.
func (f *Factory) CreateWeet(user *models.User, overrides ...func(*models.Weet)) (*models.Weet, error) {
	weet := &models.Weet{
		Text:     gofakeit.Sentence(f.rand.Intn(15) + 3),
		Author:   user.Handle,
		TimeDate: f.pastTime(30),
	}

	for _, override := range overrides {
		override(weet)
	}

	if err := f.db.Create(weet).Error; err != nil {
		return nil, err
	}
	return weet, nil
}

// CreateFollow persists a follow edge; duplicate edges are skipped.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.Handle == followee.Handle {
		return nil
	}
	edge := &models.Follow{
		FollowerHandle: follower.Handle,
		FolloweeHandle: followee.Handle,
	}
	err := f.db.Create(edge).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// CreateReaction persists a reaction edge of the given kind; duplicates are
// skipped.
func (f *Factory) CreateReaction(kind models.ReactionKind, user *models.User, weet *models.Weet) error {
	err := f.db.Create(kind.NewEdge(user.Handle, weet.ID)).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

func (f *Factory) pastTime(maxDays int) time.Time {
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
