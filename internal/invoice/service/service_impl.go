package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	billingservice "github.com/paswerklabs/paswerk/internal/billing/service"
	"github.com/paswerklabs/paswerk/internal/clock"
	"github.com/paswerklabs/paswerk/internal/config"
	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	"github.com/paswerklabs/paswerk/internal/invoice/render"
	"github.com/paswerklabs/paswerk/internal/observability"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
	"github.com/paswerklabs/paswerk/pkg/db/pagination"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	clock        clock.Clock
	cfg          config.BillingConfig
	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	shiftRepo    shiftdomain.Repository
	ratesSvc     ratesdomain.Service
	segmenter    *billingservice.Segmenter
	renderer     *render.Renderer
	metrics      *observability.Metrics
	tracer       trace.Tracer
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Cfg          config.Config
	Repo         invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	ShiftRepo    shiftdomain.Repository
	RatesSvc     ratesdomain.Service
	Segmenter    *billingservice.Segmenter
	Renderer     *render.Renderer
	Metrics      *observability.Metrics `optional:"true"`
	Tracer       trace.TracerProvider   `optional:"true"`
}

func NewService(p ServiceParam) invoicedomain.Service {
	s := &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:        p.GenID,
		clock:        p.Clock,
		cfg:          p.Cfg.Billing,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		shiftRepo:    p.ShiftRepo,
		ratesSvc:     p.RatesSvc,
		segmenter:    p.Segmenter,
		renderer:     p.Renderer,
		metrics:      p.Metrics,
	}
	if p.Tracer != nil {
		s.tracer = p.Tracer.Tracer("invoice.service")
	}
	return s
}

func (s *Service) Generate(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Invoice, error) {
	invoice, client, location, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.repo.NextNumber(ctx, tx, invoice.IssueDate.Year())
		if err != nil {
			return err
		}
		invoice.Number = number

		body, err := s.renderer.Render(invoice, client, location)
		if err != nil {
			return err
		}
		invoice.BodyText = body

		return s.repo.Insert(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvoicedAmount.Add(invoice.TotalAmount)
	}
	s.log.Info("invoice generated",
		zap.String("number", invoice.Number),
		zap.Int64("client_id", invoice.ClientID),
		zap.Float64("total_amount", invoice.TotalAmount))
	return invoice, nil
}

func (s *Service) Preview(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Invoice, error) {
	invoice, client, location, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	body, err := s.renderer.Render(invoice, client, location)
	if err != nil {
		return nil, err
	}
	invoice.BodyText = body
	return invoice, nil
}

// run executes the engine: resolve rates, segment shifts, aggregate totals.
// The returned invoice is unnumbered and unrendered.
func (s *Service) run(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Invoice, *customerdomain.Client, *customerdomain.Location, error) {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "invoice.run")
		defer span.End()
	}

	started := time.Now()
	runID := ulid.Make().String()
	log := s.log.With(zap.String("run_id", runID))

	invoice, client, location, err := s.runLocked(ctx, req, log)

	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.BillingRuns.WithLabelValues(status).Inc()
		s.metrics.BillingRunDuration.Observe(time.Since(started).Seconds())
	}
	return invoice, client, location, err
}

func (s *Service) runLocked(ctx context.Context, req invoicedomain.GenerateRequest, log *zap.Logger) (*invoicedomain.Invoice, *customerdomain.Client, *customerdomain.Location, error) {
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, nil, nil, invoicedomain.ErrInvalidPeriod
	}

	vatRate := s.cfg.VATRatePercent
	if req.VATRatePercent != nil {
		vatRate = *req.VATRatePercent
	}
	if vatRate < 0 {
		return nil, nil, nil, invoicedomain.ErrInvalidVATRate
	}

	termDays := s.cfg.PaymentTermDays
	if req.PaymentTermDays != nil {
		termDays = *req.PaymentTermDays
	}
	if termDays < 0 {
		return nil, nil, nil, invoicedomain.ErrInvalidPaymentTerm
	}

	passType, err := ratesdomain.ParsePassType(req.PassType)
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := s.customerRepo.FindClientByID(ctx, s.db, req.ClientID)
	if err != nil {
		return nil, nil, nil, err
	}
	if client == nil {
		return nil, nil, nil, customerdomain.ErrClientNotFound
	}

	location, err := s.customerRepo.FindLocationByID(ctx, s.db, req.LocationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if location == nil || location.ClientID != client.ID {
		return nil, nil, nil, customerdomain.ErrLocationNotFound
	}

	rates, err := s.ratesSvc.Resolve(ctx, req.LocationID, string(passType))
	if err != nil {
		return nil, nil, nil, err
	}

	shifts, err := s.shiftRepo.ListForBilling(ctx, s.db, req.LocationID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, nil, nil, err
	}

	period := billingdomain.Period{Start: req.PeriodStart, End: req.PeriodEnd}
	result, err := s.segmenter.Run(shifts, rates, period, req.LocationID)
	if err != nil {
		return nil, nil, nil, err
	}

	issueDate := startOfDay(s.clock.Now(ctx))
	totals := Aggregate(result.Breakdown, vatRate, issueDate, termDays)

	log.Debug("billing run segmented",
		zap.Int("shifts", len(shifts)),
		zap.Int("lines", len(result.Lines)),
		zap.Float64("hours", result.Breakdown.TotalHours()))

	invoice := &invoicedomain.Invoice{
		ID:             s.genID.Generate(),
		ClientID:       client.ID,
		LocationID:     location.ID,
		PassType:       passType,
		PeriodStart:    startOfDay(req.PeriodStart),
		PeriodEnd:      startOfDay(req.PeriodEnd),
		IssueDate:      issueDate,
		DueDate:        totals.DueDate,
		VATRatePercent: vatRate,
		Subtotal:       totals.Subtotal,
		VATAmount:      totals.VATAmount,
		TotalAmount:    totals.TotalAmount,
		Breakdown:      result.Breakdown,
		Lines:          result.Lines,
		CreatedAt:      s.clock.Now(ctx),
	}
	return invoice, client, location, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) (invoicedomain.ListResponse, error) {
	filter := invoicedomain.ListFilter{ClientID: req.ClientID, LocationID: req.LocationID}
	invoices, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return invoicedomain.ListResponse{}, err
	}
	return invoicedomain.ListResponse{
		PageInfo: *pagination.Next(req.Pagination, len(invoices)),
		Invoices: invoices,
	}, nil
}

func (s *Service) ParseBreakdown(ctx context.Context, id snowflake.ID) (billingdomain.Breakdown, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(invoice.Breakdown) > 0 {
		return invoice.Breakdown, nil
	}

	// Legacy rows carry only the rendered text; the current rate table for
	// the pair maps rates back to tiers.
	rates, err := s.ratesSvc.Resolve(ctx, invoice.LocationID, string(invoice.PassType))
	if err != nil {
		return nil, err
	}
	return s.renderer.Parse(invoice.BodyText, rates)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
