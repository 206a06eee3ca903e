// Package importer replays spreadsheet exports of historical sales into the
// store. Imported sales are settled transactions: they never touch item
// stock, unlike interactively recorded sales.
package importer

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/prometheus"
)

// Result summarizes a bulk import run
type Result struct {
	Imported     int `json:"imported"`
	Skipped      int `json:"skipped"`
	ItemsCreated int `json:"itemsCreated"`
}

// dateLayouts are tried in order for free-text date cells
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	time.RFC3339,
}

// SerialDateToTime converts a spreadsheet serial day count (1899-12-30
// epoch) to a time. Serial 25569 is the Unix epoch.
func SerialDateToTime(serial float64) time.Time {
	ms := math.Round((serial - 25569) * 86400 * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// parseDate interprets a date cell: empty uses now, a numeric value is a
// spreadsheet serial, anything else is tried as text. Unparseable text
// falls back to now rather than failing the row.
func parseDate(cell string, now time.Time) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return now
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		return SerialDateToTime(serial)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return now
}

// parseNumber reads a numeric cell, defaulting to 0 on blank or garbage
func parseNumber(cell string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return value
}

// columnIndexes maps the expected header names to their column positions
func columnIndexes(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cellAt(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Import reads the first sheet of a spreadsheet and records one sale per
// row, creating unknown items with zero stock as it goes. Rows are
// processed sequentially and independently: a bad row is skipped, earlier
// rows stay committed.
func Import(db *gorm.DB, r io.Reader, log *zap.Logger) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Result{}, nil
	}

	cols := columnIndexes(rows[0])
	now := time.Now()

	result := &Result{}
	for i, row := range rows[1:] {
		itemName := strings.TrimSpace(cellAt(row, cols, "item"))
		if itemName == "" {
			log.Warn("Skipping import row without item name", zap.Int("row", i+2))
			prometheus.RecordImportRow("skipped")
			result.Skipped++
			continue
		}

		quantity := int(parseNumber(cellAt(row, cols, "quantity")))
		price := parseNumber(cellAt(row, cols, "price"))
		customer := strings.TrimSpace(cellAt(row, cols, "customer"))
		date := parseDate(cellAt(row, cols, "date"), now)

		// Resolve the item by exact name, creating it with zero stock
		// if the catalog does not know it yet.
		var item model.Item
		err := db.Where("name = ?", itemName).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = model.Item{Name: itemName, Quantity: 0, Price: price}
			if err := db.Create(&item).Error; err != nil {
				log.Error("Failed to create item from import row",
					zap.Int("row", i+2),
					zap.String("item", itemName),
					zap.Error(err))
				prometheus.RecordImportRow("skipped")
				result.Skipped++
				continue
			}
			prometheus.RecordImportRow("item_created")
			result.ItemsCreated++
			log.Info("Created item from import",
				zap.String("item", itemName),
				zap.Float64("price", price))
		} else if err != nil {
			log.Error("Failed to resolve item for import row",
				zap.Int("row", i+2),
				zap.String("item", itemName),
				zap.Error(err))
			prometheus.RecordImportRow("skipped")
			result.Skipped++
			continue
		}

		// Total comes from the row's own price, not the stored item
		// price: the sheet records what was actually charged.
		sale := model.Sale{
			ItemID:     item.ID,
			Quantity:   quantity,
			TotalPrice: float64(quantity) * price,
			Customer:   customer,
			Date:       date,
		}
		if err := db.Create(&sale).Error; err != nil {
			log.Error("Failed to record imported sale",
				zap.Int("row", i+2),
				zap.String("item", itemName),
				zap.Error(err))
			prometheus.RecordImportRow("skipped")
			result.Skipped++
			continue
		}

		prometheus.RecordImportRow("imported")
		result.Imported++
	}

	return result, nil
}
