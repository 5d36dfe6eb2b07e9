package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	"github.com/paswerklabs/paswerk/pkg/db/pagination"
)

const dateLayout = "2006-01-02"

type generateInvoiceRequest struct {
	ClientID        int64    `json:"client_id" binding:"required"`
	LocationID      int64    `json:"location_id" binding:"required"`
	PassType        string   `json:"pass_type" binding:"required"`
	PeriodStart     string   `json:"period_start" binding:"required"`
	PeriodEnd       string   `json:"period_end" binding:"required"`
	VATRatePercent  *float64 `json:"vat_rate_percent"`
	PaymentTermDays *int     `json:"payment_term_days"`
}

func (r generateInvoiceRequest) toDomain() (invoicedomain.GenerateRequest, error) {
	start, err := time.Parse(dateLayout, r.PeriodStart)
	if err != nil {
		return invoicedomain.GenerateRequest{}, newValidationError("period_start", "invalid_date", "period_start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, r.PeriodEnd)
	if err != nil {
		return invoicedomain.GenerateRequest{}, newValidationError("period_end", "invalid_date", "period_end must be YYYY-MM-DD")
	}
	return invoicedomain.GenerateRequest{
		ClientID:        r.ClientID,
		LocationID:      r.LocationID,
		PassType:        r.PassType,
		PeriodStart:     start,
		PeriodEnd:       end,
		VATRatePercent:  r.VATRatePercent,
		PaymentTermDays: r.PaymentTermDays,
	}, nil
}

// @Summary      Generate Invoice
// @Description  Run billing for a client location and persist a numbered invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body generateInvoiceRequest true "Generate Invoice Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices [post]
func (s *Server) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, err)
		return
	}
	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.Generate(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

// @Summary      Preview Invoice
// @Description  Run billing without persisting; the invoice number is a placeholder
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body generateInvoiceRequest true "Preview Invoice Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/preview [post]
func (s *Server) PreviewInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, err)
		return
	}
	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.Preview(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

// @Summary      List Invoices
// @Description  List invoices, optionally filtered by client or location
// @Tags         invoices
// @Produce      json
// @Param        client_id    query  string  false  "Client ID"
// @Param        location_id  query  string  false  "Location ID"
// @Success      200  {array}  invoicedomain.Invoice
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	req := invoicedomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: c.Query("page_token"),
			PageSize:  int32(queryInt(c, "page_size")),
		},
	}
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, newValidationError("client_id", "invalid_id", "client_id must be an integer"))
			return
		}
		req.ClientID = id
	}
	if raw := strings.TrimSpace(c.Query("location_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, newValidationError("location_id", "invalid_id", "location_id must be an integer"))
			return
		}
		req.LocationID = id
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Invoices, &resp.PageInfo)
}

// @Summary      Get Invoice
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

// @Summary      Get Invoice Breakdown
// @Description  Return the tier breakdown, parsing it back from the invoice text when needed
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  billingdomain.Breakdown
// @Router       /invoices/{id}/breakdown [get]
func (s *Server) GetInvoiceBreakdown(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	breakdown, err := s.invoiceSvc.ParseBreakdown(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, breakdown)
}

func parseInvoiceID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		return 0, newValidationError("id", "invalid_id", "invoice id must be an integer")
	}
	return id, nil
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
