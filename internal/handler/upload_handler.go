package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/athmaw/ttis-tracker/internal/importer"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/logger"
)

// UploadSales accepts a multipart spreadsheet upload and bulk-imports its
// rows as historical sales
func UploadSales(c echo.Context) error {
	log := logger.FromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("No file uploaded", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no file uploaded"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to read uploaded file"})
	}
	defer src.Close()

	result, err := importer.Import(database.GetDB(), src, log)
	if err != nil {
		log.Error("Failed to import sales spreadsheet",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to import sales"})
	}

	log.Info("Sales spreadsheet imported",
		zap.String("filename", fileHeader.Filename),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("items_created", result.ItemsCreated))

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "file uploaded and sales added successfully",
		"imported":     result.Imported,
		"skipped":      result.Skipped,
		"itemsCreated": result.ItemsCreated,
	})
}
