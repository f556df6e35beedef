package exports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"labinventory/infrastructure/sqlite"
)

// ItemsExportCSVHandler streams the full inventory as CSV.
func ItemsExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory-items.csv"`)
		if err := writeItemsCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export items", http.StatusInternalServerError)
		}
	}
}

// LabLabelsPDFHandler renders equipment-ID barcode labels for one lab.
func LabLabelsPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || labID <= 0 {
			http.Error(w, "invalid lab id", http.StatusBadRequest)
			return
		}

		rows, err := loadLabLabelRows(r.Context(), db, labID)
		if err != nil {
			http.Error(w, "failed to load lab items", http.StatusInternalServerError)
			return
		}
		if len(rows) == 0 {
			http.Error(w, "lab has no items", http.StatusNotFound)
			return
		}

		pdfBytes, err := renderEquipmentLabelsPDF(rows, time.Now())
		if err != nil {
			http.Error(w, "failed to render labels", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="equipment-labels.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}
