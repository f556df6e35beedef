package exports

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// renderEquipmentLabelsPDF builds one label page per item: the lab and item
// names plus a code128 barcode of the equipment ID.
func renderEquipmentLabelsPDF(rows []equipmentLabelRow, printedAt time.Time) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetTitle("Equipment Labels", false)

	for i, row := range rows {
		barcodePNG, err := renderCode128PNG(row.EquipmentID, 1200, 260)
		if err != nil {
			return nil, fmt.Errorf("barcode %q: %w", row.EquipmentID, err)
		}

		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 28)
		pdf.CellFormat(0, 14, row.LabName, "", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 16)
		pdf.CellFormat(0, 9, row.ItemName, "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 9, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("equipment-barcode-%d", i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pageW, _ := pdf.GetPageSize()
		imgW := 140.0
		imgH := 36.0
		x := (pageW - imgW) / 2
		y := 60.0
		pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

		pdf.SetY(y + imgH + 4)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, row.EquipmentID, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}

	bounds := scaled.Bounds()
	normalized := image.NewNRGBA(bounds)
	draw.Draw(normalized, bounds, scaled, bounds.Min, draw.Src)

	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
