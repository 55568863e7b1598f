package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookingDomain "github.com/shareit/service-booking/internal/domain/booking"
	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
)

// setupTestDB opens a private in-memory SQLite database with the service schema.
func setupTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, db.AutoMigrate(&UserModel{}, &ItemModel{}, &BookingModel{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *catalogDomain.User {
	t.Helper()
	u, err := catalogDomain.NewUser(uuid.New(), name, name+"@example.com")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Upsert(context.Background(), u))
	return u
}

func seedItem(t *testing.T, db *gorm.DB, owner uuid.UUID, available bool) *catalogDomain.Item {
	t.Helper()
	it, err := catalogDomain.NewItem(uuid.New(), owner, "drill", "cordless drill", available, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormItemRepository(db).Upsert(context.Background(), it))
	return it
}

func seedBooking(t *testing.T, repo *GormBookingRepository, itemID, bookerID uuid.UUID, start, end time.Time, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	t.Helper()
	b, err := bookingDomain.NewBooking(itemID, bookerID, start, end)
	require.NoError(t, err)
	b = bookingDomain.ReconstructBooking(b.ID(), b.ItemID(), b.BookerID(), b.Start(), b.End(),
		status, b.Version(), b.CreatedAt(), b.UpdatedAt())
	require.NoError(t, repo.Save(context.Background(), b))
	return b
}

func bookingIDs(bookings []*bookingDomain.Booking) []uuid.UUID {
	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID()
	}
	return ids
}
