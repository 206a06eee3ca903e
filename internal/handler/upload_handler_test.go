package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/pkg/database"
)

func uploadRequest(t *testing.T, e *echo.Echo, token string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if file != nil {
		part, err := writer.CreateFormFile("file", "sales.xlsx")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/sales/upload-excel", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func salesWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Item", "Quantity", "Price", "Customer", "Date"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, cellRef(i+2), &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func cellRef(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}

func TestUploadSales(t *testing.T) {
	e := setupTest(t)
	user := createUser(t, "staff@example.com", model.RoleEmployee)
	createItem(t, "Widget", 10, 2.0)

	workbook := salesWorkbook(t, [][]interface{}{
		{"Widget", 3, 2.0, "Acme", "2024-01-15"},
		{"NewThing", 5, 3, "", 45000},
	})

	rec := uploadRequest(t, e, tokenFor(t, user), workbook)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Imported     int `json:"imported"`
		Skipped      int `json:"skipped"`
		ItemsCreated int `json:"itemsCreated"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.Imported)
	assert.Equal(t, 0, body.Skipped)
	assert.Equal(t, 1, body.ItemsCreated)

	var count int64
	database.GetDB().Model(&model.Sale{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestUploadSalesRequiresFile(t *testing.T) {
	e := setupTest(t)
	user := createUser(t, "staff@example.com", model.RoleEmployee)

	rec := uploadRequest(t, e, tokenFor(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSalesRejectsGarbageFile(t *testing.T) {
	e := setupTest(t)
	user := createUser(t, "staff@example.com", model.RoleEmployee)

	rec := uploadRequest(t, e, tokenFor(t, user), []byte("definitely not a spreadsheet"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUploadSalesRequiresAuth(t *testing.T) {
	e := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/sales/upload-excel", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
