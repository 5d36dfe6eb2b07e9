package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	billingservice "github.com/paswerklabs/paswerk/internal/billing/service"
	"github.com/paswerklabs/paswerk/internal/config"
	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	customerrepository "github.com/paswerklabs/paswerk/internal/customer/repository"
	"github.com/paswerklabs/paswerk/internal/holiday"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	"github.com/paswerklabs/paswerk/internal/invoice/render"
	invoicerepository "github.com/paswerklabs/paswerk/internal/invoice/repository"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	ratesrepository "github.com/paswerklabs/paswerk/internal/rates/repository"
	ratesservice "github.com/paswerklabs/paswerk/internal/rates/service"
	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
	shiftrepository "github.com/paswerklabs/paswerk/internal/shift/repository"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now(context.Context) time.Time { return c.now }

type testEnv struct {
	db  *gorm.DB
	svc invoicedomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Client{},
		&customerdomain.Location{},
		&shiftdomain.Shift{},
		&ratesdomain.RateTable{},
		&invoicedomain.Invoice{},
	))
	require.NoError(t, db.Exec(
		`CREATE TABLE invoice_sequences (year INTEGER PRIMARY KEY, last_value BIGINT NOT NULL)`,
	).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{Billing: config.BillingConfig{
		DefaultRates: config.DefaultRatesConfig{
			Base: 20, Evening: 22, Night: 24, Weekend: 27, Holiday: 30, NewYearsEve: 40,
		},
		VATRatePercent:  21,
		PaymentTermDays: 14,
	}}

	log := zap.NewNop()
	ratesSvc := ratesservice.NewService(ratesservice.ServiceParam{
		DB: db, Log: log, Cfg: cfg, Repo: ratesrepository.Provide(),
	})
	segmenter := billingservice.NewSegmenterWithPolicy(log, holiday.NoneCalendar{}, billingdomain.PolicyWholeShift)

	svc := NewService(ServiceParam{
		DB:           db,
		Log:          log,
		GenID:        node,
		Clock:        fixedClock{now: time.Date(2025, time.July, 1, 10, 30, 0, 0, time.UTC)},
		Cfg:          cfg,
		Repo:         invoicerepository.Provide(),
		CustomerRepo: customerrepository.Provide(),
		ShiftRepo:    shiftrepository.Provide(),
		RatesSvc:     ratesSvc,
		Segmenter:    segmenter,
		Renderer:     render.NewRenderer(),
	})

	return &testEnv{db: db, svc: svc}
}

func (e *testEnv) seedClientAndLocation(t *testing.T) {
	t.Helper()
	require.NoError(t, e.db.Create(&customerdomain.Client{
		ID: 1, Name: "Gemeente Haarlem", KVK: "34098235",
	}).Error)
	require.NoError(t, e.db.Create(&customerdomain.Location{
		ID: 10, ClientID: 1, Name: "Stadskantoor Zijlvest",
	}).Error)
}

func (e *testEnv) seedShift(t *testing.T, id int64, date time.Time, start, end string) {
	t.Helper()
	require.NoError(t, e.db.Create(&shiftdomain.Shift{
		ID:         snowflake.ID(id),
		LocationID: 10,
		EmployeeID: 100,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
	}).Error)
}

func juneRequest() invoicedomain.GenerateRequest {
	return invoicedomain.GenerateRequest{
		ClientID:    1,
		LocationID:  10,
		PassType:    "blue",
		PeriodStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateSingleDayShift(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	// Friday 09:00-17:00 at the default base rate.
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")

	invoice, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	assert.Equal(t, "2025-00001", invoice.Number)
	assert.InDelta(t, 160.0, invoice.Subtotal, 1e-9)
	assert.InDelta(t, 33.60, invoice.VATAmount, 1e-9)
	assert.InDelta(t, 193.60, invoice.TotalAmount, 1e-9)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), invoice.IssueDate)
	assert.Equal(t, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), invoice.DueDate)
	assert.Contains(t, invoice.BodyText, "Factuurnummer:\t2025-00001")
	assert.Contains(t, invoice.BodyText, "Totaal:\t€ 193,60")
}

func TestGenerateMixedTiers(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	// Saturday 10:00-16:00 (weekend) plus Monday 18:00-21:00 (evening).
	env.seedShift(t, 1, time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), "10:00", "16:00")
	env.seedShift(t, 2, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), "18:00", "21:00")

	invoice, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	assert.InDelta(t, 6*27+3*22, invoice.Subtotal, 1e-9)
	assert.InDelta(t, 6.0, invoice.Breakdown[billingdomain.TierWeekend].Hours, 1e-9)
	assert.InDelta(t, 3.0, invoice.Breakdown[billingdomain.TierEvening].Hours, 1e-9)
	assert.Len(t, invoice.Lines, 2)
}

func TestGenerateNumbersAreSequential(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")

	first, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)
	second, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	assert.Equal(t, "2025-00001", first.Number)
	assert.Equal(t, "2025-00002", second.Number)
	assert.NotEqual(t, first.ID, second.ID)
	// Same input, same money.
	assert.InDelta(t, first.Subtotal, second.Subtotal, 1e-9)
	assert.InDelta(t, first.TotalAmount, second.TotalAmount, 1e-9)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")

	invoice, err := env.svc.Preview(context.Background(), juneRequest())
	require.NoError(t, err)

	assert.Empty(t, invoice.Number)
	assert.Contains(t, invoice.BodyText, "Factuurnummer:\tPENDING")
	assert.InDelta(t, 193.60, invoice.TotalAmount, 1e-9)

	var count int64
	require.NoError(t, env.db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerateEmptyPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)

	invoice, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	assert.Zero(t, invoice.Subtotal)
	assert.Zero(t, invoice.TotalAmount)
	assert.Empty(t, invoice.Lines)
	assert.Equal(t, "2025-00001", invoice.Number)
}

func TestGenerateVATAndTermOverrides(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")

	vat := 9.0
	term := 30
	req := juneRequest()
	req.VATRatePercent = &vat
	req.PaymentTermDays = &term

	invoice, err := env.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 14.40, invoice.VATAmount, 1e-9)
	assert.Equal(t, time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), invoice.DueDate)
	assert.Contains(t, invoice.BodyText, "BTW 9%:")
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)

	t.Run("period end before start", func(t *testing.T) {
		req := juneRequest()
		req.PeriodEnd = req.PeriodStart.AddDate(0, 0, -1)
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidPeriod)
	})

	t.Run("negative vat", func(t *testing.T) {
		vat := -1.0
		req := juneRequest()
		req.VATRatePercent = &vat
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidVATRate)
	})

	t.Run("negative term", func(t *testing.T) {
		term := -1
		req := juneRequest()
		req.PaymentTermDays = &term
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidPaymentTerm)
	})

	t.Run("unknown pass type", func(t *testing.T) {
		req := juneRequest()
		req.PassType = "gold"
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ratesdomain.ErrInvalidPassType)
	})

	t.Run("unknown client", func(t *testing.T) {
		req := juneRequest()
		req.ClientID = 999
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, customerdomain.ErrClientNotFound)
	})

	t.Run("location of another client", func(t *testing.T) {
		require.NoError(t, env.db.Create(&customerdomain.Client{ID: 2, Name: "Ander"}).Error)
		req := juneRequest()
		req.ClientID = 2
		_, err := env.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, customerdomain.ErrLocationNotFound)
	})
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.GetByID(context.Background(), snowflake.ID(12345))
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestListFiltersByClient(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")

	_, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	resp, err := env.svc.List(context.Background(), invoicedomain.ListRequest{ClientID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)

	resp, err = env.svc.List(context.Background(), invoicedomain.ListRequest{ClientID: 999})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
}

func TestParseBreakdownFromStoredText(t *testing.T) {
	env := newTestEnv(t)
	env.seedClientAndLocation(t)
	env.seedShift(t, 1, time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), "09:00", "17:00")
	env.seedShift(t, 2, time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), "10:00", "16:00")

	invoice, err := env.svc.Generate(context.Background(), juneRequest())
	require.NoError(t, err)

	// Simulate a legacy row that only stored the rendered text.
	require.NoError(t, env.db.Model(&invoicedomain.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("breakdown", nil).Error)

	parsed, err := env.svc.ParseBreakdown(context.Background(), invoice.ID)
	require.NoError(t, err)

	for _, tier := range billingdomain.TierOrder {
		assert.InDelta(t, invoice.Breakdown[tier].Hours, parsed[tier].Hours, 0.01, "%s hours", tier)
		assert.InDelta(t, invoice.Breakdown[tier].Total, parsed[tier].Total, 0.02, "%s total", tier)
	}
}

func TestAggregateTotals(t *testing.T) {
	rates := ratesdomain.TableFromBase(20)
	breakdown := billingdomain.NewBreakdown(rates)
	breakdown.Add(billingdomain.TierDay, 8)
	breakdown.Add(billingdomain.TierWeekend, 6)

	issue := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	totals := Aggregate(breakdown, 21, issue, 14)

	assert.InDelta(t, 8*20+6*27.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, totals.Subtotal*0.21, totals.VATAmount, 1e-9)
	assert.InDelta(t, totals.Subtotal+totals.VATAmount, totals.TotalAmount, 1e-9)
	assert.Equal(t, issue.AddDate(0, 0, 14), totals.DueDate)
}
