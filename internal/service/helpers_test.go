package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/repository"
	"github.com/foodgram/backend/internal/testhelpers"
	"gorm.io/gorm"
)

var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image"))

// memoryImages is an ImageStore keeping images in a map
type memoryImages struct {
	mu      sync.Mutex
	next    int
	saved   map[string][]byte
	deleted []string
}

func newMemoryImages() *memoryImages {
	return &memoryImages{saved: map[string][]byte{}}
}

func (m *memoryImages) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("/media/recipes/images/%d.png", m.next)
	m.saved[ref] = data
	return ref, nil
}

func (m *memoryImages) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	store         *repository.GormStore
	images        *memoryImages
	query         *QueryEngine
	recipes       *RecipeService
	subscriptions *SubscriptionService
	memberships   *MembershipService
	shopping      *ShoppingListService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	store := repository.NewGormStore(db)
	images := newMemoryImages()
	query := NewQueryEngine(store)
	log := logger.Discard()
	return &testEnv{
		db:            db,
		store:         store,
		images:        images,
		query:         query,
		recipes:       NewRecipeService(store, images, metrics.Nop{}, log),
		subscriptions: NewSubscriptionService(store, query, metrics.Nop{}, log),
		memberships:   NewMembershipService(store, metrics.Nop{}, log),
		shopping:      NewShoppingListService(query, metrics.Nop{}),
	}
}

func boolPtr(b bool) *bool { return &b }
