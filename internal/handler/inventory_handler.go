package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/logger"
	"github.com/athmaw/ttis-tracker/prometheus"
)

// ItemRequest defines the structure for item creation requests
type ItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	BatchNo     string  `json:"batchNo"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ItemUpdateRequest carries the fields to merge into an existing item.
// Pointer fields distinguish "not supplied" from zero values.
type ItemUpdateRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	BatchNo     *string  `json:"batchNo"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

// ListItems handles retrieving all inventory items ordered by name
func ListItems(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.Item
	result := database.GetDB().Order("name ASC").Find(&items)
	if result.Error != nil {
		log.Error("Failed to list items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to retrieve items"})
	}

	return c.JSON(http.StatusOK, items)
}

// CreateItem handles creating a new inventory item
func CreateItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Invalid item fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required and quantity/price must not be negative"})
	}

	item := model.Item{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		BatchNo:     req.BatchNo,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&item); result.Error != nil {
		log.Error("Failed to create item",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create item"})
	}

	prometheus.RecordInventoryOperation("create")
	log.Info("Item created",
		zap.Uint("item_id", item.ID),
		zap.String("name", item.Name),
		zap.Int("quantity", item.Quantity))
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem merges the supplied fields into an existing item
func UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ItemUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Invalid item fields", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity and price must not be negative"})
	}

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Item not found for update", zap.String("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.BatchNo != nil {
		item.BatchNo = *req.BatchNo
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&item); result.Error != nil {
		log.Error("Failed to update item", zap.String("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update item"})
	}

	prometheus.RecordInventoryOperation("update")
	log.Info("Item updated",
		zap.Uint("item_id", item.ID),
		zap.String("name", item.Name))
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item permanently. Items referenced by historical
// sales are protected and the delete is rejected with a conflict.
func DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Item not found for deletion", zap.String("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	}

	var saleCount int64
	if result := database.GetDB().Model(&model.Sale{}).Where("item_id = ?", item.ID).Count(&saleCount); result.Error != nil {
		log.Error("Failed to count sales for item", zap.Uint("item_id", item.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete item"})
	}
	if saleCount > 0 {
		log.Warn("Item has recorded sales and cannot be deleted",
			zap.Uint("item_id", item.ID),
			zap.Int64("sales", saleCount))
		return c.JSON(http.StatusConflict, echo.Map{"message": "item has recorded sales and cannot be deleted"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&item); result.Error != nil {
		log.Error("Failed to delete item", zap.String("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete item"})
	}

	prometheus.RecordInventoryOperation("delete")
	log.Info("Item deleted",
		zap.Uint("item_id", item.ID),
		zap.String("name", item.Name))
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}
