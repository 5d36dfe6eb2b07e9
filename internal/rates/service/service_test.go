package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/internal/config"
	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	"github.com/paswerklabs/paswerk/internal/rates/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ratesdomain.RateTable{}, &customerdomain.Location{}))
	return db
}

func testConfig() config.Config {
	return config.Config{
		Billing: config.BillingConfig{
			DefaultRates: config.DefaultRatesConfig{
				Base:        20,
				Evening:     22,
				Night:       24,
				Weekend:     27,
				Holiday:     30,
				NewYearsEve: 40,
			},
		},
	}
}

func newTestService(t *testing.T, db *gorm.DB, cache *redis.Client) ratesdomain.Service {
	t.Helper()
	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Cfg:   testConfig(),
		Repo:  repository.Provide(),
		Cache: cache,
	})
}

func insertRateTable(t *testing.T, db *gorm.DB, table ratesdomain.RateTable) {
	t.Helper()
	require.NoError(t, db.Create(&table).Error)
}

func TestResolveActiveTable(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	table := ratesdomain.TableFromBase(25)
	table.ID = 1
	table.LocationID = 10
	table.PassType = ratesdomain.PassTypeBlue
	table.Active = true
	insertRateTable(t, db, table)

	got, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Base, 1e-9)
	assert.InDelta(t, 27.5, got.Evening, 1e-9)
	assert.InDelta(t, 50.0, got.NewYearsEve, 1e-9)
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	got, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.LocationID)
	assert.Equal(t, ratesdomain.PassTypeBlue, got.PassType)
	assert.InDelta(t, 20.0, got.Base, 1e-9)
	assert.InDelta(t, 22.0, got.Evening, 1e-9)
	assert.InDelta(t, 24.0, got.Night, 1e-9)
	assert.InDelta(t, 27.0, got.Weekend, 1e-9)
	assert.InDelta(t, 30.0, got.Holiday, 1e-9)
	assert.InDelta(t, 40.0, got.NewYearsEve, 1e-9)
}

func TestResolveDefaultsDerivedFromBase(t *testing.T) {
	db := newTestDB(t)
	cfg := config.Config{Billing: config.BillingConfig{
		DefaultRates: config.DefaultRatesConfig{Base: 30},
	}}
	svc := NewService(ServiceParam{DB: db, Log: zap.NewNop(), Cfg: cfg, Repo: repository.Provide()})

	got, err := svc.Resolve(context.Background(), 10, "grey")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, got.Base, 1e-9)
	assert.InDelta(t, 33.0, got.Evening, 1e-9)
	assert.InDelta(t, 36.0, got.Night, 1e-9)
	assert.InDelta(t, 40.5, got.Weekend, 1e-9)
	assert.InDelta(t, 45.0, got.Holiday, 1e-9)
	assert.InDelta(t, 60.0, got.NewYearsEve, 1e-9)
}

func TestResolveInvalidPassType(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	_, err := svc.Resolve(context.Background(), 10, "gold")
	assert.ErrorIs(t, err, ratesdomain.ErrInvalidPassType)
}

func TestResolveNormalizesPassType(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	got, err := svc.Resolve(context.Background(), 10, "  Blue ")
	require.NoError(t, err)
	assert.Equal(t, ratesdomain.PassTypeBlue, got.PassType)
}

func TestResolveDuplicateActiveTables(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	for i := int64(1); i <= 2; i++ {
		table := ratesdomain.TableFromBase(20)
		table.ID = snowflake.ID(i)
		table.LocationID = 10
		table.PassType = ratesdomain.PassTypeBlue
		table.Active = true
		insertRateTable(t, db, table)
	}

	_, err := svc.Resolve(context.Background(), 10, "blue")
	assert.ErrorIs(t, err, ratesdomain.ErrDuplicateRateTable)
}

func TestResolveIgnoresInactiveTables(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	table := ratesdomain.TableFromBase(99)
	table.ID = 1
	table.LocationID = 10
	table.PassType = ratesdomain.PassTypeBlue
	table.Active = false
	insertRateTable(t, db, table)

	got, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.Base, 1e-9)
}

func TestResolvePassTypesIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	table := ratesdomain.TableFromBase(25)
	table.ID = 1
	table.LocationID = 10
	table.PassType = ratesdomain.PassTypeBlue
	table.Active = true
	insertRateTable(t, db, table)

	blue, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	grey, err := svc.Resolve(context.Background(), 10, "grey")
	require.NoError(t, err)

	assert.InDelta(t, 25.0, blue.Base, 1e-9)
	assert.InDelta(t, 20.0, grey.Base, 1e-9)
}

func TestResolveCachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	db := newTestDB(t)
	svc := newTestService(t, db, cache)

	table := ratesdomain.TableFromBase(25)
	table.ID = 1
	table.LocationID = 10
	table.PassType = ratesdomain.PassTypeBlue
	table.Active = true
	insertRateTable(t, db, table)

	got, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Base, 1e-9)
	require.True(t, mr.Exists("rates:10:blue"))

	// A DB change behind the cache is not seen until the TTL expires.
	require.NoError(t, db.Exec(`UPDATE rate_tables SET base = 99`).Error)

	cached, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, cached.Base, 1e-9)

	mr.FastForward(10 * time.Minute)
	fresh, err := svc.Resolve(context.Background(), 10, "blue")
	require.NoError(t, err)
	assert.InDelta(t, 99.0, fresh.Base, 1e-9)
}
