package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/ptr"
)

const (
	invoicesSheet = "Invoices"
	itemsSheet    = "Line items"
	moneyFormat   = "#,##0.00"
)

var (
	invoiceColumns = []string{
		"Number", "Status", "Issue date", "Due date", "Booking ID",
		"Customer user ID", "Customer name", "Customer email",
		"Subtotal", "Tax rate", "Tax", "Total", "Paid at", "Payment method",
	}
	itemColumns = []string{"Invoice", "Position", "Name", "Quantity", "Unit price", "Amount"}
)

// InvoiceExporter выгружает счета в XLSX: лист счетов и лист позиций
type InvoiceExporter struct{}

// NewInvoiceExporter создает экспортер счетов
func NewInvoiceExporter() *InvoiceExporter {
	return &InvoiceExporter{}
}

// ContentType MIME-тип результата
func (e *InvoiceExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write пишет книгу в w
func (e *InvoiceExporter) Write(w io.Writer, invoices []*domain.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", invoicesSheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("export: create sheet %s: %w", itemsSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr.Ptr(moneyFormat)})
	if err != nil {
		return fmt.Errorf("export: money style: %w", err)
	}

	if err := writeRow(f, invoicesSheet, 1, toInterfaces(invoiceColumns)); err != nil {
		return err
	}
	if err := writeRow(f, itemsSheet, 1, toInterfaces(itemColumns)); err != nil {
		return err
	}
	if err := styleRow(f, invoicesSheet, 1, len(invoiceColumns), headerStyle); err != nil {
		return err
	}
	if err := styleRow(f, itemsSheet, 1, len(itemColumns), headerStyle); err != nil {
		return err
	}

	itemRow := 2
	for i, inv := range invoices {
		row := i + 2
		if err := writeRow(f, invoicesSheet, row, invoiceRow(inv)); err != nil {
			return err
		}
		// Subtotal, Tax, Total
		for _, col := range []int{9, 11, 12} {
			if err := styleCell(f, invoicesSheet, col, row, moneyStyle); err != nil {
				return err
			}
		}

		for _, item := range inv.Items {
			values := []interface{}{
				inv.Number,
				item.Position,
				item.Name,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.Amount().InexactFloat64(),
			}
			if err := writeRow(f, itemsSheet, itemRow, values); err != nil {
				return err
			}
			for _, col := range []int{5, 6} {
				if err := styleCell(f, itemsSheet, col, itemRow, moneyStyle); err != nil {
					return err
				}
			}
			itemRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func invoiceRow(inv *domain.Invoice) []interface{} {
	var bookingID, userID, paidAt, paymentMethod interface{}
	if inv.BookingID != nil {
		bookingID = *inv.BookingID
	}
	if inv.Customer.UserID != nil {
		userID = *inv.Customer.UserID
	}
	if inv.PaidAt != nil {
		paidAt = inv.PaidAt.Format("2006-01-02 15:04")
	}
	if inv.PaymentMethod != nil {
		paymentMethod = *inv.PaymentMethod
	}

	return []interface{}{
		inv.Number,
		string(inv.Status),
		inv.IssueDate.Format(domain.DateFormat),
		inv.DueDate.Format(domain.DateFormat),
		bookingID,
		userID,
		inv.Customer.Name,
		inv.Customer.Email,
		inv.Subtotal.InexactFloat64(),
		inv.TaxRate.String(),
		inv.TaxAmount.InexactFloat64(),
		inv.Total.InexactFloat64(),
		paidAt,
		paymentMethod,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, val := range values {
		if val == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("export: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func toInterfaces(values []string) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}
