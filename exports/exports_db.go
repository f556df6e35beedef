package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"labinventory/infrastructure/sqlite"
)

func writeItemsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"equipment_id", "category", "name", "lab", "quantity", "po_number", "po_date", "warranty_to", "status"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		EquipmentID string  `bun:"equipment_id"`
		Category    string  `bun:"item_category"`
		Name        string  `bun:"item_name"`
		Lab         string  `bun:"lab"`
		Quantity    float64 `bun:"quantity"`
		PONumber    string  `bun:"po_number"`
		PODate      string  `bun:"po_date"`
		WarrantyTo  string  `bun:"warranty_to"`
		Status      string  `bun:"status"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT ii.equipment_id, ii.item_category, ii.item_name,
       l.name AS lab,
       COALESCE(ii.quantity, 0.0) AS quantity,
       COALESCE(ii.po_number, '') AS po_number,
       COALESCE(strftime('%d/%m/%Y', ii.po_date), '') AS po_date,
       COALESCE(strftime('%d/%m/%Y', ii.warranty_to), '') AS warranty_to,
       COALESCE(ii.status, '') AS status
FROM inventory_items ii
JOIN labs l ON l.id = ii.lab_id
ORDER BY l.name ASC, ii.item_name COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.EquipmentID,
			r.Category,
			r.Name,
			r.Lab,
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			r.PONumber,
			r.PODate,
			r.WarrantyTo,
			r.Status,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

type equipmentLabelRow struct {
	EquipmentID string `bun:"equipment_id"`
	ItemName    string `bun:"item_name"`
	LabName     string `bun:"lab"`
}

func loadLabLabelRows(ctx context.Context, db *sqlite.DB, labID int64) ([]equipmentLabelRow, error) {
	rows := make([]equipmentLabelRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT ii.equipment_id, ii.item_name, l.name AS lab
FROM inventory_items ii
JOIN labs l ON l.id = ii.lab_id
WHERE ii.lab_id = ?
ORDER BY ii.item_name COLLATE NOCASE ASC`, labID).Scan(ctx, &rows)
	})
	return rows, err
}
