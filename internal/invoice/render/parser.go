package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

// Parse is the strict inverse of Render: it recovers the tier breakdown from
// a stored invoice body. The rate table maps each row's rate back to its
// tier; equal rates resolve in tier precedence order. Totals printed in the
// document are cross-checked against the re-accumulated buckets within
// currency-rounding tolerance.
func (r *Renderer) Parse(body string, rates ratesdomain.RateTable) (billingdomain.Breakdown, error) {
	lines := strings.Split(body, "\n")

	headerAt := -1
	for i, line := range lines {
		if line == tableHeaderRow {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("%w: line-item table not found", invoicedomain.ErrMalformedInvoiceText)
	}

	breakdown := billingdomain.NewBreakdown(rates)
	rows := 0

	i := headerAt + 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 5 {
			return nil, fmt.Errorf("%w: row %d has %d columns", invoicedomain.ErrMalformedInvoiceText, rows+1, len(cols))
		}

		hours, err := parseNumber(cols[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d hours %q", invoicedomain.ErrMalformedInvoiceText, rows+1, cols[0])
		}
		rate, err := parseMoney(cols[2])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d rate %q", invoicedomain.ErrMalformedInvoiceText, rows+1, cols[2])
		}
		if _, err := parseDate(cols[3]); err != nil {
			return nil, fmt.Errorf("%w: row %d date %q", invoicedomain.ErrMalformedInvoiceText, rows+1, cols[3])
		}
		total, err := parseMoney(cols[4])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d total %q", invoicedomain.ErrMalformedInvoiceText, rows+1, cols[4])
		}

		tier, ok := billingdomain.TierForRate(rates, rate)
		if !ok {
			return nil, fmt.Errorf("%w: row %d rate %s matches no tier", invoicedomain.ErrMalformedInvoiceText, rows+1, cols[2])
		}

		// The printed total is authoritative; recomputing from the
		// 2-decimal hours would compound rounding.
		bucket := breakdown[tier]
		bucket.Hours += hours
		bucket.Total += total
		breakdown[tier] = bucket
		rows++
	}

	subtotal, vat, total, err := parseSummary(lines[i:])
	if err != nil {
		return nil, err
	}

	tolerance := 0.01 * float64(rows+1)
	if math.Abs(breakdown.Subtotal()-subtotal) > tolerance {
		return nil, fmt.Errorf("%w: subtotal %s disagrees with line items", invoicedomain.ErrMalformedInvoiceText, cols2(subtotal))
	}
	if math.Abs(subtotal+vat-total) > 0.02 {
		return nil, fmt.Errorf("%w: total %s disagrees with subtotal plus VAT", invoicedomain.ErrMalformedInvoiceText, cols2(total))
	}

	return breakdown, nil
}

func parseSummary(lines []string) (subtotal, vat, total float64, err error) {
	var haveSub, haveVAT, haveTotal bool
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) != 2 {
			continue
		}
		switch {
		case cols[0] == "Subtotaal:":
			subtotal, err = parseMoney(cols[1])
			haveSub = err == nil
		case strings.HasPrefix(cols[0], "BTW ") && strings.HasSuffix(cols[0], "%:"):
			vat, err = parseMoney(cols[1])
			haveVAT = err == nil
		case cols[0] == "Totaal:":
			total, err = parseMoney(cols[1])
			haveTotal = err == nil
		}
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: summary line %q", invoicedomain.ErrMalformedInvoiceText, line)
		}
	}
	if !haveSub || !haveVAT || !haveTotal {
		return 0, 0, 0, fmt.Errorf("%w: summary lines incomplete", invoicedomain.ErrMalformedInvoiceText)
	}
	return subtotal, vat, total, nil
}

func parseMoney(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "€ ") {
		return 0, fmt.Errorf("missing euro prefix in %q", raw)
	}
	return parseNumber(strings.TrimPrefix(raw, "€ "))
}

// parseNumber reads a Dutch-formatted decimal: dot thousands separator,
// comma decimal separator.
func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	return strconv.ParseFloat(raw, 64)
}

func cols2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
