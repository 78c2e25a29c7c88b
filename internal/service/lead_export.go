package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"agrocrm/internal/apierror"
	"agrocrm/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Name", "CPF", "Email", "Phone", "City", "Status", "Total Area (ha)"}

func (s *leadService) Export(ctx context.Context, format string) ([]byte, string, string, error) {
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, "", "", err
	}

	switch format {
	case "csv":
		data, err := exportCSV(leads)
		return data, "text/csv", "leads.csv", err
	case "excel":
		data, err := exportXLSX(leads)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "leads.xlsx", err
	case "pdf":
		data, err := exportPDF(leads)
		return data, "application/pdf", "leads.pdf", err
	}
	return nil, "", "", apierror.Validation("Invalid format")
}

func exportRow(l *model.Lead) []string {
	email, phone := "", ""
	if l.Email != nil {
		email = *l.Email
	}
	if l.Phone != nil {
		phone = *l.Phone
	}
	return []string{
		l.Name,
		l.CPF,
		email,
		phone,
		l.City,
		string(l.Status),
		l.SumPropertyAreas().StringFixed(2),
	}
}

func exportCSV(leads []model.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range leads {
		if err := w.Write(exportRow(&leads[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportXLSX(leads []model.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i := range leads {
		row := exportRow(&leads[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(leads []model.Lead) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Leads", "", 1, "L", false, 0, "")

	widths := []float64{60, 30, 60, 30, 40, 30, 30}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range exportHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i := range leads {
		for j, v := range exportRow(&leads[i]) {
			pdf.CellFormat(widths[j], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
