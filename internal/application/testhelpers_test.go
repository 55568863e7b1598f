package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	"github.com/shareit/service-booking/internal/repository"
	"github.com/shareit/service-booking/pkg/kafka"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type publishedEvent struct {
	topic string
	key   string
	event kafka.CloudEvent
}

// recordingPublisher captures events instead of writing them to Kafka.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	fail   bool
}

func (p *recordingPublisher) PublishEventWithKey(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.event.Type
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	service   *BookingService
	catalog   *CatalogService
	bookings  *repository.GormBookingRepository
	users     *repository.GormUserRepository
	items     *repository.GormItemRepository
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&repository.UserModel{}, &repository.ItemModel{}, &repository.BookingModel{}))

	env := &testEnv{
		db:        db,
		bookings:  repository.NewGormBookingRepository(db),
		users:     repository.NewGormUserRepository(db),
		items:     repository.NewGormItemRepository(db),
		publisher: &recordingPublisher{},
	}
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	env.service = NewBookingService(env.bookings, env.users, env.items, env.publisher, zap.NewNop(), opts...)
	env.catalog = NewCatalogService(env.users, env.items, zap.NewNop())
	return env
}

func (e *testEnv) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	u, err := catalogDomain.NewUser(uuid.New(), name, name+"@example.com")
	require.NoError(t, err)
	require.NoError(t, e.users.Upsert(context.Background(), u))
	return u.ID()
}

func (e *testEnv) item(t *testing.T, owner uuid.UUID, available bool) uuid.UUID {
	t.Helper()
	it, err := catalogDomain.NewItem(uuid.New(), owner, "ladder", "aluminium ladder", available, nil)
	require.NoError(t, err)
	require.NoError(t, e.items.Upsert(context.Background(), it))
	return it.ID()
}

func (e *testEnv) book(t *testing.T, booker, item uuid.UUID, start, end time.Duration) *BookingDTO {
	t.Helper()
	dto, err := e.service.CreateBooking(context.Background(), booker, CreateBookingRequest{
		ItemID: item,
		Start:  testNow.Add(start),
		End:    testNow.Add(end),
	})
	require.NoError(t, err)
	return dto
}

func (e *testEnv) totalBookings(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&repository.BookingModel{}).Count(&n).Error)
	return n
}

func ids(dtos []BookingDTO) []uuid.UUID {
	out := make([]uuid.UUID, len(dtos))
	for i, d := range dtos {
		out[i] = d.ID
	}
	return out
}
