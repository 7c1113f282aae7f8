package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enquiry-service/internal/domain"
	"enquiry-service/internal/transport/http/ez"
	mdw "enquiry-service/internal/transport/http/middleware"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Enquiries"
)

// ExportHeader 导出表头（顺序即列顺序）
var ExportHeader = []string{
	"ID", "Name", "Address", "City", "Zip Code", "Phone Number", "Logo Path", "Created At", "Updated At",
}

type Exporter interface {
	Export(ctx context.Context, actor *domain.Principal) ([]domain.Enquiry, error)
}

type ExportHandler struct {
	svc Exporter
	log *zap.Logger
}

func NewExportHandler(svc Exporter, log *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, log: log}
}

// Export GET /enquiries/export（admin）
func (h *ExportHandler) Export(c *gin.Context) {
	rows, err := h.svc.Export(c.Request.Context(), mdw.PrincipalFrom(c))
	if err != nil {
		ez.Fail(c, h.log, err)
		return
	}
	data, err := BuildEnquiriesXLSX(rows)
	if err != nil {
		ez.Fail(c, h.log, err)
		return
	}
	name := fmt.Sprintf("enquiries-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// BuildEnquiriesXLSX 生成导出文件：表头加粗、冻结首行，每条记录一行
func BuildEnquiriesXLSX(rows []domain.Enquiry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "G", 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for i, e := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		logo := ""
		if e.LogoPath != nil {
			logo = *e.LogoPath
		}
		row := []any{
			e.ID, e.Name, e.Address, e.City, e.ZipCode, e.PhoneNumber, logo,
			e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// 冻结表头
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
