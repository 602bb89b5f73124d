package memory

import (
	"context"
	"sync"

	"github.com/tesseract-hub/listing-service/internal/models"
)

// Store is the in-memory implementation of storage.Storage. It is a
// volatile fallback and demo backend: nothing survives a restart, but every
// contract the Postgres store honors (quota checks, cascading deletes,
// leveling thresholds) is enforced identically here.
//
// All collections hang off one mutex. That single lock is also the
// serialization point the quota validate-then-write sequence and the bulk
// clear rely on, mirroring the row locks and transactions of the Postgres
// store.
type Store struct {
	mu sync.RWMutex

	users           map[string]*models.User
	properties      map[string]*models.Property
	favorites       map[string]*models.Favorite
	inquiries       map[string]*models.Inquiry
	searchHistory   map[string]*models.SearchHistory
	waves           map[string]*models.Wave
	wavePermissions map[string]*models.CustomerWavePermission
	activities      map[string]*models.CustomerActivity
	points          map[string]*models.CustomerPoints
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSeedData fills the store with demo fixtures so the service is usable
// without a database.
func WithSeedData() Option {
	return func(s *Store) {
		s.seed()
	}
}

// NewStore creates an empty in-memory store. Tests get an isolated instance
// per call; nothing is shared through package state.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:           make(map[string]*models.User),
		properties:      make(map[string]*models.Property),
		favorites:       make(map[string]*models.Favorite),
		inquiries:       make(map[string]*models.Inquiry),
		searchHistory:   make(map[string]*models.SearchHistory),
		waves:           make(map[string]*models.Wave),
		wavePermissions: make(map[string]*models.CustomerWavePermission),
		activities:      make(map[string]*models.CustomerActivity),
		points:          make(map[string]*models.CustomerPoints),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping always succeeds; there is no connection behind this store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyProperty(p *models.Property) *models.Property {
	c := *p
	if p.WaveID != nil {
		w := *p.WaveID
		c.WaveID = &w
	}
	return &c
}

func copyInquiry(i *models.Inquiry) *models.Inquiry {
	c := *i
	return &c
}
