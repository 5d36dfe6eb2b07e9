// Package render produces and re-parses the plain-text invoice document.
//
// The layout is a durable external contract: legacy rows store billing data
// only as this text, so section order and field labels must not change
// without a versioned alternative.
package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
)

// Issuer identity printed on every invoice.
const (
	companyName    = "Paswerk B.V."
	companyStreet  = "Stationsplein 45"
	companyCity    = "1012 AB Amsterdam"
	companyKVK     = "KVK 34123456"
	companyVATID   = "BTW NL862914058B01"
	companyIBAN    = "IBAN NL91 ABNA 0417 1643 00"
	paymentFooter  = "Gelieve het totaalbedrag voor de vervaldatum over te maken op NL91 ABNA 0417 1643 00 onder vermelding van het factuurnummer."
	pendingNumber  = "PENDING"
	dateLayout     = "02-01-2006"
	tableHeaderRow = "Uren\tLocatie\tTarief\tDatum\tBedrag"
)

type Renderer struct {
	printer *message.Printer
}

func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.Dutch)}
}

// Render writes the invoice body. Client and location are required legal
// identity; optional client fields fall back to "-".
func (r *Renderer) Render(invoice *invoicedomain.Invoice, client *customerdomain.Client, location *customerdomain.Location) (string, error) {
	if invoice == nil {
		return "", invoicedomain.ErrInvoiceNotFound
	}
	if client == nil || client.Name == "" {
		return "", invoicedomain.ErrMissingClient
	}
	if location == nil || location.Name == "" {
		return "", invoicedomain.ErrMissingLocation
	}

	number := invoice.Number
	if number == "" {
		number = pendingNumber
	}

	var b strings.Builder

	b.WriteString("FACTUUR\n")
	b.WriteString("Factuurnummer:\t" + number + "\n")
	b.WriteString("Factuurdatum:\t" + invoice.IssueDate.Format(dateLayout) + "\n")
	b.WriteString("Vervaldatum:\t" + invoice.DueDate.Format(dateLayout) + "\n")
	b.WriteString("\n")

	b.WriteString(companyName + "\n")
	b.WriteString(companyStreet + "\n")
	b.WriteString(companyCity + "\n")
	b.WriteString(companyKVK + "\n")
	b.WriteString(companyVATID + "\n")
	b.WriteString(companyIBAN + "\n")
	b.WriteString("\n")

	b.WriteString(client.Name + "\n")
	b.WriteString("KVK " + orDash(client.KVK) + "\n")
	b.WriteString(orDash(client.Address) + "\n")
	b.WriteString("Tel: " + orDash(client.Phone) + "\n")
	b.WriteString("E-mail: " + orDash(client.Email) + "\n")
	b.WriteString("\n")

	b.WriteString("Periode: " + invoice.PeriodStart.Format(dateLayout) +
		" t/m " + invoice.PeriodEnd.Format(dateLayout) +
		", locatie: " + location.Name + "\n")
	b.WriteString("\n")

	b.WriteString(tableHeaderRow + "\n")
	for _, line := range invoice.Lines {
		b.WriteString(r.number(line.Hours) + "\t" +
			location.Name + "\t" +
			r.money(line.Rate) + "\t" +
			line.Date.Format(dateLayout) + "\t" +
			r.money(line.Total) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Subtotaal:\t" + r.money(invoice.Subtotal) + "\n")
	b.WriteString("BTW " + formatPercent(invoice.VATRatePercent) + "%:\t" + r.money(invoice.VATAmount) + "\n")
	b.WriteString("Totaal:\t" + r.money(invoice.TotalAmount) + "\n")
	b.WriteString("\n")

	b.WriteString(paymentFooter + "\n")

	return b.String(), nil
}

func (r *Renderer) money(v float64) string {
	return "€ " + r.number(v)
}

func (r *Renderer) number(v float64) string {
	return r.printer.Sprintf("%.2f", v)
}

// formatPercent prints the VAT percentage with a decimal comma and no
// trailing zeros: 21, 21,5.
func formatPercent(pct float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(pct, 'f', -1, 64), ".", ",")
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}
