// Package pdf renders service order tickets with fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
)

var _ ports.PDFGenerator = (*Generator)(nil)

// Shop is printed in the header of every ticket.
type Shop struct {
	Name  string
	Site  string
	Phone string
}

type ticket int

const (
	checkInTicket ticket = iota
	checkOutTicket
)

func (t ticket) title() string {
	if t == checkOutTicket {
		return "COMPROVANTE DE ENTREGA"
	}
	return "ORDEM DE SERVICO"
}

// Generator renders A4 tickets for the counter and the customer.
type Generator struct {
	shop Shop
}

func NewGenerator(shop Shop) *Generator {
	if strings.TrimSpace(shop.Name) == "" {
		shop.Name = "Repair Shop"
	}
	return &Generator{shop: shop}
}

func (g *Generator) CheckIn(ctx context.Context, order *domain.ServiceOrder) ([]byte, error) {
	return g.render(ctx, checkInTicket, order)
}

func (g *Generator) CheckOut(ctx context.Context, order *domain.ServiceOrder) ([]byte, error) {
	return g.render(ctx, checkOutTicket, order)
}

// Regenerate renders the check-out ticket for delivered orders and the check-in one otherwise.
func (g *Generator) Regenerate(ctx context.Context, order *domain.ServiceOrder) ([]byte, error) {
	return g.render(ctx, ticketFor(order), order)
}

func ticketFor(order *domain.ServiceOrder) ticket {
	if order != nil && order.Status == domain.StatusDelivered {
		return checkOutTicket
	}
	return checkInTicket
}

func (g *Generator) render(ctx context.Context, kind ticket, order *domain.ServiceOrder) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("render %s: order is nil", strings.ToLower(kind.title()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(fmt.Sprintf("%s %s", kind.title(), formatNumber(order.ID)), true)
	doc.SetMargins(12, 12, 12)
	doc.AddPage()

	doc.SetFont("Helvetica", "BU", 28)
	doc.SetTextColor(160, 20, 20)
	doc.CellFormat(150, 14, tr(g.shop.Name), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 14, order.SecurityCode, "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(70, 5, tr(strings.ToUpper(g.shop.Site)), "", 0, "L", false, 0, "")
	doc.CellFormat(0, 5, tr(g.shop.Phone), "", 1, "L", false, 0, "")
	g.rule(doc)

	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(160, 20, 20)
	doc.CellFormat(110, 7, tr(fmt.Sprintf("%s N: %s", kind.title(), formatNumber(order.ID))), "", 0, "L", false, 0, "")
	doc.CellFormat(0, 7, "DATA: "+formatDate(order.EntryDate), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, "EMPRESA: "+strings.ToUpper(string(order.Enterprise)), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)

	left := []string{
		"Cliente: " + order.Customer.Name,
		"Fone: " + order.Customer.Phone,
		"Local: " + order.Product.Location,
	}
	right := []string{
		"Aparelho: " + strings.ToUpper(string(order.Product.Type)),
		"Marca: " + order.Product.Brand.String(),
		"Modelo: " + order.Product.Model.String(),
		"Serie: " + order.Product.SerialNumber.String(),
		"Defeito: " + order.Product.Defect.String(),
		"Acessorios: " + order.Product.Accessories,
	}
	g.columns(doc, tr, left, right)

	if kind == checkOutTicket {
		g.rule(doc)
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 7, tr("Solucao: "+order.Solution.String()), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, tr("Garantia: "+order.Guarantee.String()), "", 1, "L", false, 0, "")
		doc.CellFormat(60, 6, "Pecas: "+order.PartCost.String(), "", 0, "L", false, 0, "")
		doc.CellFormat(60, 6, "Mao de obra: "+order.LaborCost.String(), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(0, 6, "TOTAL: "+order.TotalAmount().StringFixed(2), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		if order.DeliveryDate != nil {
			doc.CellFormat(0, 6, "Entregue em: "+formatDate(*order.DeliveryDate), "", 1, "L", false, 0, "")
		}
	}

	g.rule(doc)
	doc.SetFont("Helvetica", "B", 90)
	doc.SetTextColor(130, 10, 10)
	doc.CellFormat(0, 40, formatNumber(order.ID), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", strings.ToLower(kind.title()), err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) columns(doc *fpdf.Fpdf, tr func(string) string, left, right []string) {
	doc.SetFont("Helvetica", "", 10)
	rows := max(len(left), len(right))
	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		doc.CellFormat(110, 6, tr(l), "", 0, "L", false, 0, "")
		doc.CellFormat(0, 6, tr(r), "", 1, "L", false, 0, "")
	}
}

func (g *Generator) rule(doc *fpdf.Fpdf) {
	doc.Ln(3)
	y := doc.GetY()
	w, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	doc.Line(left, y, w-right, y)
	doc.Ln(4)
}

// formatNumber prints ids the way they are written on the shelf tags: 00.000.
func formatNumber(id int64) string {
	n := id % 100000
	return fmt.Sprintf("%02d.%03d", n/1000, n%1000)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
