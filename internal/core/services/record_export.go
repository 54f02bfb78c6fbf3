package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Audit Records"

var exportHeader = []string{
	"Record ID", "Entered At", "Bin ID", "Location", "Staff", "Client Code", "Client Pincode",
	"Book Quantity", "Actual Quantity", "Discrepancy", "Status", "Response", "Comment",
	"Responded At", "Final Status At", "Notes",
}

func (s *auditRecordService) ExportRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter, format portssvc.ExportFormat, w io.Writer) error {
	if err := s.CheckPermission(ctx, caller, domain.OpExportRecords); err != nil {
		return err
	}
	if format != portssvc.ExportCSV && format != portssvc.ExportXLSX {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", format))
	}

	records, err := s.recordRepo.FindRecords(ctx, filter)
	if err != nil {
		return err
	}

	if format == portssvc.ExportXLSX {
		err = writeXLSX(w, records)
	} else {
		err = writeCSV(w, records)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to export records", slog.String("format", string(format)))
		return fmt.Errorf("failed to export records: %w", err)
	}
	s.LogInfo(ctx, "Records exported", slog.String("format", string(format)), slog.Int("count", len(records)))
	return nil
}

func exportRow(r *domain.AuditRecord) []string {
	var action, comment string
	if r.Response != nil {
		action = string(r.Response.Action)
		comment = r.Response.Comment
	}
	return []string{
		r.RecordID,
		formatTime(&r.Timestamps.EnteredAt),
		r.BinID,
		r.Location,
		r.StaffName,
		r.ClientCode,
		r.ClientPincode,
		r.BookQuantity.String(),
		r.ActualQuantity.String(),
		r.Discrepancy.String(),
		string(r.Status),
		action,
		comment,
		formatTime(r.Timestamps.RespondedAt),
		formatTime(r.Timestamps.FinalStatusAt),
		r.Notes,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeCSV(w io.Writer, records []domain.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(exportRow(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, records []domain.AuditRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := setRow(f, 1, exportHeader); err != nil {
		return err
	}
	for i := range records {
		if err := setRow(f, i+2, exportRow(&records[i])); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(exportSheet, cell, &cells)
}
