package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendtrack/models"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler admin export of all expenses
type ExportHandler struct {
	expenses *service.ExpenseService
}

// NewExportHandler creates an export handler
func NewExportHandler(expenses *service.ExpenseService) *ExportHandler {
	return &ExportHandler{expenses: expenses}
}

var exportHeaders = []string{"Expense ID", "User ID", "Date", "Amount", "Description", "Store", "Categories"}

func categoryNames(categories []models.Category) string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ",")
}

// ExportCSV exports all expenses as a CSV file
// @Summary Export expenses as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV file"
// @Failure 403 {object} map[string]interface{} "admin required"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, err := h.expenses.GetAll()
	if err != nil {
		FromError(c, err)
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ExpenseID),
			fmt.Sprintf("%d", expense.UserID),
			expense.ExpenseDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", expense.Amount),
			expense.Description,
			expense.StoreName,
			categoryNames(expense.Categories),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel exports all expenses as an Excel workbook
// @Summary Export expenses as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel file"
// @Failure 403 {object} map[string]interface{} "admin required"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, err := h.expenses.GetAll()
	if err != nil {
		FromError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Expenses"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, expense := range expenses {
		row := i + 2
		values := []interface{}{
			expense.ExpenseID,
			expense.UserID,
			expense.ExpenseDate.Format("2006-01-02"),
			expense.Amount,
			expense.Description,
			expense.StoreName,
			categoryNames(expense.Categories),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("expenses_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
