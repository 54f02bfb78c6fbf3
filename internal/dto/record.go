package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest is one bin count submitted by staff.
type CreateRecordRequest struct {
	BinID          string           `json:"binId" binding:"required,max=64"`
	Location       string           `json:"location" binding:"omitempty,max=100"`
	BookQuantity   *decimal.Decimal `json:"bookQuantity" binding:"required"`
	ActualQuantity *decimal.Decimal `json:"actualQuantity" binding:"required"`
	Notes          string           `json:"notes" binding:"omitempty,max=2000"`
	// Either reference may name the client the count belongs to.
	ClientID   string `json:"clientId" binding:"omitempty,uuid"`
	ClientCode string `json:"clientCode" binding:"omitempty,alphanum"`
}

// RespondRequest is a client's decision on a pending record.
type RespondRequest struct {
	Action  domain.ResponseAction `json:"action" binding:"required,oneof=approved rejected"`
	Comment string                `json:"comment" binding:"omitempty,max=2000"`
}

// ListRecordsParams are the admin listing filters. Dates accept YYYY-MM-DD or RFC 3339;
// a date-only end bound covers the whole day.
type ListRecordsParams struct {
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Location   string `form:"location"`
	Staff      string `form:"staff"`
	ClientCode string `form:"clientCode"`
	Pincode    string `form:"pincode"`
}

// ToFilter parses the query into a domain filter.
func (p ListRecordsParams) ToFilter() (domain.RecordFilter, error) {
	f := domain.RecordFilter{
		Location:   strings.TrimSpace(p.Location),
		StaffName:  strings.TrimSpace(p.Staff),
		ClientCode: strings.TrimSpace(p.ClientCode),
		Pincode:    strings.TrimSpace(p.Pincode),
	}
	if p.StartDate != "" {
		from, _, err := parseDateBound(p.StartDate)
		if err != nil {
			return f, apperrors.NewValidationError(fmt.Sprintf("invalid startDate: %v", err))
		}
		f.From = &from
	}
	if p.EndDate != "" {
		to, dateOnly, err := parseDateBound(p.EndDate)
		if err != nil {
			return f, apperrors.NewValidationError(fmt.Sprintf("invalid endDate: %v", err))
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, apperrors.NewValidationError("endDate is before startDate")
	}
	return f, nil
}

func parseDateBound(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// RecordResponse mirrors domain.AuditRecord on the wire.
type RecordResponse struct {
	RecordID       string                  `json:"recordID"`
	BinID          string                  `json:"binId"`
	Location       string                  `json:"location"`
	StaffID        string                  `json:"staffID"`
	StaffName      string                  `json:"staffName"`
	ClientID       string                  `json:"clientID,omitempty"`
	ClientCode     string                  `json:"clientCode,omitempty"`
	BookQuantity   decimal.Decimal         `json:"bookQuantity"`
	ActualQuantity decimal.Decimal         `json:"actualQuantity"`
	Discrepancy    decimal.Decimal         `json:"discrepancy"`
	Notes          string                  `json:"notes,omitempty"`
	Status         domain.RecordStatus     `json:"status"`
	Response       *domain.ClientResponse  `json:"clientResponse,omitempty"`
	Timestamps     domain.RecordTimestamps `json:"timestamps"`
}

// ToRecordResponse converts a domain.AuditRecord to RecordResponse DTO
func ToRecordResponse(r *domain.AuditRecord) RecordResponse {
	return RecordResponse{
		RecordID:       r.RecordID,
		BinID:          r.BinID,
		Location:       r.Location,
		StaffID:        r.StaffID,
		StaffName:      r.StaffName,
		ClientID:       r.ClientID,
		ClientCode:     r.ClientCode,
		BookQuantity:   r.BookQuantity,
		ActualQuantity: r.ActualQuantity,
		Discrepancy:    r.Discrepancy,
		Notes:          r.Notes,
		Status:         r.Status,
		Response:       r.Response,
		Timestamps:     r.Timestamps,
	}
}

// ToRecordResponses converts a slice of records, keeping order.
func ToRecordResponses(records []domain.AuditRecord) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return out
}
