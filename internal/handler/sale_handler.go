package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/logger"
	"github.com/athmaw/ttis-tracker/prometheus"
)

// Sentinel errors raised inside sale transactions so handlers can map them
// to the right status after the rollback.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// SaleRequest defines the structure for sale creation/update requests
type SaleRequest struct {
	ItemID   uint   `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Customer string `json:"customer"`
	Date     string `json:"date"`
}

// MonthlyReportEntry is one row of the monthly revenue rollup
type MonthlyReportEntry struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// deductStock atomically takes quantity from an item's stock. The guard in
// the WHERE clause keeps the check and the decrement in a single statement;
// a plain read-then-write would let two concurrent sales oversell the item
// under READ COMMITTED isolation.
func deductStock(tx *gorm.DB, itemID uint, quantity int) error {
	result := tx.Model(&model.Item{}).
		Where("id = ? AND quantity >= ?", itemID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// restoreStock returns quantity to an item's stock. A missing item matches
// zero rows and is tolerated.
func restoreStock(tx *gorm.DB, itemID uint, quantity int) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

// parseSaleDate accepts a calendar day or RFC3339 timestamp; an empty value
// falls back to now.
func parseSaleDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ListSales handles retrieving all sales with their items, newest first.
// Optional from/to query parameters (YYYY-MM-DD) filter by sale date.
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Item").Order("date DESC")

	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			log.Warn("Invalid from parameter", zap.String("from", from))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from date, expected YYYY-MM-DD"})
		}
		query = query.Where("date >= ?", t)
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			log.Warn("Invalid to parameter", zap.String("to", to))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid to date, expected YYYY-MM-DD"})
		}
		query = query.Where("date < ?", t.AddDate(0, 0, 1))
	}

	var sales []model.Sale
	if result := query.Find(&sales); result.Error != nil {
		log.Error("Failed to list sales", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to retrieve sales"})
	}

	return c.JSON(http.StatusOK, sales)
}

// CreateSale validates a requested sale against current stock, decrements the
// stock and persists the sale record. Both writes happen in one transaction.
func CreateSale(c echo.Context) error {
	log := logger.FromContext(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Invalid sale fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "itemId and a positive quantity are required"})
	}

	date, err := parseSaleDate(req.Date)
	if err != nil {
		log.Warn("Invalid sale date", zap.String("date", req.Date))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, expected YYYY-MM-DD or RFC3339"})
	}

	var createdBy *uint
	if userID, ok := c.Get("user_id").(uint); ok {
		createdBy = &userID
	}

	var sale model.Sale
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		var item model.Item
		if err := tx.First(&item, req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		// Stock check and deduction are one guarded statement, so two
		// concurrent sales cannot both pass the check on the same rows.
		if err := deductStock(tx, item.ID, req.Quantity); err != nil {
			return err
		}

		sale = model.Sale{
			ItemID:     item.ID,
			Quantity:   req.Quantity,
			TotalPrice: float64(req.Quantity) * item.Price,
			Customer:   req.Customer,
			Date:       date,
			CreatedBy:  createdBy,
		}
		return tx.Create(&sale).Error
	})

	switch {
	case errors.Is(err, ErrItemNotFound):
		log.Warn("Item not found for sale", zap.Uint("item_id", req.ItemID))
		prometheus.RecordSaleError("item_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case errors.Is(err, ErrInsufficientStock):
		log.Warn("Insufficient stock for sale",
			zap.Uint("item_id", req.ItemID),
			zap.Int("requested", req.Quantity))
		prometheus.RecordSaleError("insufficient_stock")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "insufficient stock"})
	case err != nil:
		log.Error("Failed to create sale", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create sale"})
	}

	prometheus.RecordSaleOperation("create")
	log.Info("Sale recorded",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("item_id", sale.ItemID),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total_price", sale.TotalPrice))
	return c.JSON(http.StatusCreated, sale)
}

// UpdateSale reverses the previous sale's stock effect, re-validates the new
// quantity against the (possibly different) item and overwrites the sale.
// The whole sequence is all-or-nothing: an insufficient-stock failure rolls
// back the reversal as well.
func UpdateSale(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("sale_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Invalid sale fields", zap.String("sale_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "itemId and a positive quantity are required"})
	}

	date, err := parseSaleDate(req.Date)
	if err != nil {
		log.Warn("Invalid sale date", zap.String("date", req.Date))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, expected YYYY-MM-DD or RFC3339"})
	}

	var sale model.Sale
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		// Return the previous quantity to the item it was taken from.
		// The original item may have been deleted in the meantime.
		if err := restoreStock(tx, sale.ItemID, sale.Quantity); err != nil {
			return err
		}

		var item model.Item
		if err := tx.First(&item, req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		// The guarded decrement sees the restored stock, so a same-item
		// update is validated against the post-reversal quantity.
		if err := deductStock(tx, item.ID, req.Quantity); err != nil {
			return err
		}

		sale.ItemID = item.ID
		sale.Quantity = req.Quantity
		sale.TotalPrice = float64(req.Quantity) * item.Price
		sale.Customer = req.Customer
		if req.Date != "" {
			sale.Date = date
		}
		return tx.Save(&sale).Error
	})

	switch {
	case errors.Is(err, ErrSaleNotFound):
		log.Warn("Sale not found for update", zap.String("sale_id", id))
		prometheus.RecordSaleError("sale_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"message": "sale not found"})
	case errors.Is(err, ErrItemNotFound):
		log.Warn("Item not found for sale update", zap.Uint("item_id", req.ItemID))
		prometheus.RecordSaleError("item_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case errors.Is(err, ErrInsufficientStock):
		log.Warn("Insufficient stock for sale update",
			zap.String("sale_id", id),
			zap.Uint("item_id", req.ItemID),
			zap.Int("requested", req.Quantity))
		prometheus.RecordSaleError("insufficient_stock")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "insufficient stock"})
	case err != nil:
		log.Error("Failed to update sale", zap.String("sale_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update sale"})
	}

	prometheus.RecordSaleOperation("update")
	log.Info("Sale updated",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("item_id", sale.ItemID),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total_price", sale.TotalPrice))
	return c.JSON(http.StatusOK, sale)
}

// DeleteSale returns the sold quantity to the item and removes the sale.
// A missing item is tolerated; the sale is removed regardless.
func DeleteSale(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		if err := restoreStock(tx, sale.ItemID, sale.Quantity); err != nil {
			return err
		}

		return tx.Delete(&sale).Error
	})

	switch {
	case errors.Is(err, ErrSaleNotFound):
		log.Warn("Sale not found for deletion", zap.String("sale_id", id))
		prometheus.RecordSaleError("sale_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"message": "sale not found"})
	case err != nil:
		log.Error("Failed to delete sale", zap.String("sale_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete sale"})
	}

	prometheus.RecordSaleOperation("delete")
	log.Info("Sale deleted", zap.String("sale_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "sale deleted"})
}

// MonthlySalesReport groups all sales by calendar month and sums the totals,
// newest month first. The rollup is recomputed in full on every call.
func MonthlySalesReport(c echo.Context) error {
	log := logger.FromContext(c)

	var sales []model.Sale
	if result := database.GetDB().Select("total_price", "date").Find(&sales); result.Error != nil {
		log.Error("Failed to load sales for report", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to compute monthly report"})
	}

	totals := make(map[string]float64)
	for _, sale := range sales {
		totals[sale.Date.Format("2006-01")] += sale.TotalPrice
	}

	report := make([]MonthlyReportEntry, 0, len(totals))
	for month, total := range totals {
		report = append(report, MonthlyReportEntry{Month: month, Total: total})
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].Month > report[j].Month
	})

	return c.JSON(http.StatusOK, report)
}
