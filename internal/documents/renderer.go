// Package documents renders invoices and master invoices to PDF. Rendering
// reads persisted amounts only; nothing here recomputes totals.
package documents

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

const (
	marginX = 20.0
	marginY = 20.0
)

func newPDF() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)
	pdf.AddPage()
	return pdf
}

// companyHeader draws the issuing company letterhead. A nil company renders
// a minimal header with just the document title.
func companyHeader(pdf *gofpdf.Fpdf, title string, company *models.Company, logo io.Reader) {
	pdf.SetXY(marginX, marginY)

	if logo != nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("logo", opts, logo)
		pdf.ImageOptions("logo", marginX, marginY, 30, 0, false, opts, 0, "")
		pdf.SetXY(marginX+35, marginY)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	if company != nil {
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 5, company.Name)
		pdf.Ln(5)
		for _, line := range []string{
			common.SafeString(company.AddressLine1),
			common.SafeString(company.AddressLine2),
			joinCity(company),
			common.SafeString(company.Phone),
			common.SafeString(company.Email),
		} {
			if line != "" {
				pdf.Cell(0, 5, line)
				pdf.Ln(5)
			}
		}
		if company.TaxID != nil && *company.TaxID != "" {
			pdf.Cell(0, 5, fmt.Sprintf("Tax ID: %s", *company.TaxID))
			pdf.Ln(5)
		}
	}
	pdf.Ln(5)
}

func joinCity(company *models.Company) string {
	city := common.SafeString(company.City)
	province := common.SafeString(company.Province)
	postal := common.SafeString(company.PostalCode)
	out := city
	if province != "" {
		if out != "" {
			out += ", "
		}
		out += province
	}
	if postal != "" {
		if out != "" {
			out += "  "
		}
		out += postal
	}
	return out
}

func billTo(pdf *gofpdf.Fpdf, client *models.Client) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	if client == nil {
		pdf.Cell(0, 6, "Client on record")
		pdf.Ln(6)
	} else {
		pdf.Cell(0, 6, client.Name)
		pdf.Ln(6)
		for _, line := range []string{
			common.SafeString(client.AddressLine1),
			common.SafeString(client.AddressLine2),
			common.SafeString(client.Email),
		} {
			if line != "" {
				pdf.Cell(0, 6, line)
				pdf.Ln(6)
			}
		}
	}
	pdf.Ln(4)
}

// RenderInvoice produces the invoice PDF. Client, company, and logo are
// optional; persisted invoice amounts are printed as stored.
func RenderInvoice(invoice *models.Invoice, client *models.Client, company *models.Company, logo io.Reader) ([]byte, error) {
	pdf := newPDF()

	companyHeader(pdf, "INVOICE", company, logo)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Issue Date: %s", invoice.IssueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Due Date: %s", invoice.DueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(10)

	billTo(pdf, client)

	// Line item table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Well / AFE", "Hours", "Qty", "Rate", "Amount"}
	colWidths := []float64{55, 35, 18, 15, 23, 24}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(255, 255, 255)
	for _, item := range invoice.LineItems {
		tags := common.SafeString(item.WellName)
		if afe := common.SafeString(item.AFENumber); afe != "" {
			if tags != "" {
				tags += " / "
			}
			tags += afe
		}

		pdf.CellFormat(colWidths[0], 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tags, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, item.Hours.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, item.Rate.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[5], 8, item.Amount.String(), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, invoice.Subtotal.String(), "", 0, "R", false, 0, "")
	pdf.Ln(6)

	if !invoice.TaxRate.IsZero() {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(130, 5, fmt.Sprintf("Tax (%s%%):", invoice.TaxRate.String()), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, invoice.TaxAmount.String(), "", 0, "R", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, invoice.Total.String(), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if invoice.Notes != nil && *invoice.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(0, 5, *invoice.Notes, "", "L", false)
		pdf.Ln(4)
	}

	footer(pdf)
	return output(pdf)
}

// RenderMasterInvoice produces the monthly summary PDF: one section per
// client group with its invoices, then the grand total.
func RenderMasterInvoice(master *models.MasterInvoice, company *models.Company, logo io.Reader) ([]byte, error) {
	pdf := newPDF()

	period := time.Date(master.Year, time.Month(master.Month), 1, 0, 0, 0, 0, time.UTC)
	companyHeader(pdf, "MASTER INVOICE", company, logo)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(12)

	for _, group := range master.Groups {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, group.ClientName)
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		headers := []string{"Invoice", "Issued", "Status", "Total"}
		colWidths := []float64{60, 40, 30, 40}
		for i, header := range headers {
			pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 9)
		for _, inv := range group.Invoices {
			pdf.CellFormat(colWidths[0], 7, inv.InvoiceNumber, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colWidths[1], 7, inv.IssueDate.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colWidths[2], 7, string(inv.Status), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colWidths[3], 7, inv.Total.String(), "1", 0, "R", false, 0, "")
			pdf.Ln(7)
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(130, 7, "Client Subtotal:", "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, group.Subtotal.String(), "", 0, "R", false, 0, "")
		pdf.Ln(10)
	}

	if len(master.Groups) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 8, "No invoices for this period.")
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "GRAND TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, master.TotalAmount.String(), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	footer(pdf)
	return output(pdf)
}

func footer(pdf *gofpdf.Fpdf) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "Thank you for your business!")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
