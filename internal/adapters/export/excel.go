package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/labsys/labstock/internal/domain"
)

// Exporter emits any persisted table as flat records in a spreadsheet. It is
// a read-only collaborator: it queries the entities directly and applies no
// business logic.
type Exporter struct{ db *gorm.DB }

func NewExporter(db *gorm.DB) *Exporter { return &Exporter{db: db} }

// Tables lists the exportable table names.
func Tables() []string {
	return []string{
		"products", "specifications", "stocks", "stock_products",
		"orders", "order_items", "transactions",
	}
}

// Workbook builds a single-sheet workbook for the named table. Unknown names
// return domain.ErrNotFound. The caller owns the returned file and must
// Close it.
func (e *Exporter) Workbook(ctx context.Context, table string) (*excelize.File, error) {
	var (
		header []string
		rows   [][]any
		err    error
	)
	switch table {
	case "products":
		header, rows, err = e.productRows(ctx)
	case "specifications":
		header, rows, err = e.specificationRows(ctx)
	case "stocks":
		header, rows, err = e.stockRows(ctx)
	case "stock_products":
		header, rows, err = e.stockProductRows(ctx)
	case "orders":
		header, rows, err = e.orderRows(ctx)
	case "order_items":
		header, rows, err = e.orderItemRows(ctx)
	case "transactions":
		header, rows, err = e.transactionRows(ctx)
	default:
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		f.Close()
		return nil, err
	}
	for i, row := range rows {
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (e *Exporter) productRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.Product
	if err := e.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, p := range list {
		rows = append(rows, []any{p.ID.String(), p.Name, p.StockMinimum})
	}
	return []string{"id", "name", "stock_minimum"}, rows, nil
}

func (e *Exporter) specificationRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.Specification
	if err := e.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{
			s.ID.String(), s.ProductID.String(), s.Manufacturer, s.CatalogNumber, s.Units,
		})
	}
	return []string{"id", "product_id", "manufacturer", "catalog_number", "units"}, rows, nil
}

func (e *Exporter) stockRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.Stock
	if err := e.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.ID.String(), s.Name})
	}
	return []string{"id", "name"}, rows, nil
}

func (e *Exporter) stockProductRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.StockProduct
	if err := e.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, sp := range list {
		rows = append(rows, []any{
			sp.ID.String(), sp.StockID.String(), sp.ProductID.String(),
			sp.LotNumber, formatDate(sp.ExpirationDate), sp.Amount,
		})
	}
	return []string{"id", "stock_id", "product_id", "lot_number", "expiration_date", "amount"}, rows, nil
}

func (e *Exporter) orderRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.Order
	if err := e.db.WithContext(ctx).Order("order_date desc").Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, o := range list {
		rows = append(rows, []any{
			o.ID.String(), formatID(o.UserID), o.InvoiceType, o.Invoice,
			o.InvoiceValue, o.Financier, o.Notes, o.OrderDate.Format(time.RFC3339),
		})
	}
	return []string{"id", "user_id", "invoice_type", "invoice", "invoice_value", "financier", "notes", "order_date"}, rows, nil
}

func (e *Exporter) orderItemRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.OrderItem
	if err := e.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, it := range list {
		rows = append(rows, []any{
			it.ID.String(), it.OrderID.String(), formatID(it.SpecificationID),
			it.LotNumber, it.Amount, formatDate(it.ExpirationDate), it.AddedToStock,
		})
	}
	return []string{"id", "order_id", "specification_id", "lot_number", "amount", "expiration_date", "added_to_stock"}, rows, nil
}

func (e *Exporter) transactionRows(ctx context.Context) ([]string, [][]any, error) {
	var list []domain.Transaction
	if err := e.db.WithContext(ctx).Order("updated_at desc").Find(&list).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, t := range list {
		rows = append(rows, []any{
			t.ID.String(), formatID(t.UserID), formatID(t.ProductID), formatID(t.StockID),
			t.LotNumber, t.Amount, string(t.Category), t.CreatedAt.Format(time.RFC3339),
		})
	}
	return []string{"id", "user_id", "product_id", "stock_id", "lot_number", "amount", "category", "created_at"}, rows, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
