package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RecordStatus is the reconciliation state of an audit record.
type RecordStatus string

const (
	StatusAutoApproved    RecordStatus = "auto-approved"
	StatusPendingClient   RecordStatus = "pending-client"
	StatusClientApproved  RecordStatus = "client-approved"
	StatusClientRejected  RecordStatus = "client-rejected" // historical, never produced by ApplyResponse
	StatusRecountRequired RecordStatus = "recount-required"
)

// Valid reports whether s is a known status.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusAutoApproved, StatusPendingClient, StatusClientApproved, StatusClientRejected, StatusRecountRequired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined from s.
func (s RecordStatus) IsTerminal() bool {
	return s != StatusPendingClient
}

// ResponseAction is what a client decides about a pending record.
type ResponseAction string

const (
	ActionApproved ResponseAction = "approved"
	ActionRejected ResponseAction = "rejected"
)

// ClientResponse is attached to a record once a client (or admin) has acted on it.
type ClientResponse struct {
	Action      ResponseAction `json:"action"`
	Comment     string         `json:"comment"`
	ResponderID string         `json:"responderID"`
}

// RecordTimestamps tracks the three workflow moments of a record.
type RecordTimestamps struct {
	EnteredAt     time.Time  `json:"enteredAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	FinalStatusAt *time.Time `json:"finalStatusAt,omitempty"`
}

// AuditRecord is one physical count of a bin against its book quantity.
type AuditRecord struct {
	RecordID string `json:"recordID"`
	BinID    string `json:"binID"`
	Location string `json:"location"`

	StaffID   string `json:"staffID"`
	StaffName string `json:"staffName"`

	// Client association, empty when the record is open to every client.
	ClientID      string `json:"clientID,omitempty"`
	ClientCode    string `json:"clientCode,omitempty"`
	ClientPincode string `json:"clientPincode,omitempty"`

	BookQuantity   decimal.Decimal `json:"bookQuantity"`
	ActualQuantity decimal.Decimal `json:"actualQuantity"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
	Notes          string          `json:"notes,omitempty"`

	Status     RecordStatus     `json:"status"`
	Response   *ClientResponse  `json:"response,omitempty"`
	Timestamps RecordTimestamps `json:"timestamps"`
}

// NewRecordInput carries what a staff member submits for one count.
type NewRecordInput struct {
	RecordID       string
	BinID          string
	Location       string
	BookQuantity   decimal.Decimal
	ActualQuantity decimal.Decimal
	Notes          string
}

// Quantities are stored as NUMERIC(20, 6).
const (
	MaxQuantityScale         = 6
	MaxQuantityIntegerDigits = 14
)

var quantityCeiling = decimal.New(1, MaxQuantityIntegerDigits)

// checkQuantityBounds rejects values the store would round or overflow.
func checkQuantityBounds(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(MaxQuantityScale)) {
		return apperrors.NewValidationError(fmt.Sprintf("quantities allow at most %d decimal places", MaxQuantityScale))
	}
	if q.Abs().GreaterThanOrEqual(quantityCeiling) {
		return apperrors.NewValidationError(fmt.Sprintf("quantities allow at most %d integer digits", MaxQuantityIntegerDigits))
	}
	return nil
}

// NewAuditRecord builds a record authored by staff, optionally associated with client.
// Any non-zero discrepancy routes the record to client review.
func NewAuditRecord(in NewRecordInput, staff *Account, client *Account, now time.Time) (*AuditRecord, error) {
	if strings.TrimSpace(in.BinID) == "" {
		return nil, apperrors.NewValidationError("binId is required")
	}
	if staff == nil {
		return nil, apperrors.NewValidationError("record author is required")
	}
	if in.BookQuantity.IsNegative() || in.ActualQuantity.IsNegative() {
		return nil, apperrors.NewValidationError("quantities must not be negative")
	}
	for _, q := range []decimal.Decimal{in.BookQuantity, in.ActualQuantity} {
		if err := checkQuantityBounds(q); err != nil {
			return nil, err
		}
	}

	rec := &AuditRecord{
		RecordID:       in.RecordID,
		BinID:          strings.TrimSpace(in.BinID),
		Location:       strings.TrimSpace(in.Location),
		StaffID:        staff.AccountID,
		StaffName:      staff.Name,
		BookQuantity:   in.BookQuantity,
		ActualQuantity: in.ActualQuantity,
		Discrepancy:    in.BookQuantity.Sub(in.ActualQuantity).Abs(),
		Notes:          in.Notes,
		Timestamps:     RecordTimestamps{EnteredAt: now},
	}
	if client != nil {
		rec.ClientID = client.AccountID
		rec.ClientCode = client.UniqueCode
		rec.ClientPincode = client.Location.Pincode
	}

	if rec.Discrepancy.IsZero() {
		rec.Status = StatusAutoApproved
		final := now
		rec.Timestamps.FinalStatusAt = &final
	} else {
		rec.Status = StatusPendingClient
	}
	return rec, nil
}

// ApplyResponse runs the client-response transition in place. The caller is
// responsible for persisting the result conditionally on the previous status.
func (r *AuditRecord) ApplyResponse(action ResponseAction, comment string, responderID string, now time.Time) error {
	if r.Status != StatusPendingClient {
		return apperrors.NewInvalidStateError(fmt.Sprintf("record is %s, not pending client review", r.Status))
	}

	comment = strings.TrimSpace(comment)
	switch action {
	case ActionApproved:
		r.Status = StatusClientApproved
		responded, final := now, now
		r.Timestamps.RespondedAt = &responded
		r.Timestamps.FinalStatusAt = &final
	case ActionRejected:
		if comment == "" {
			return apperrors.NewValidationError("comment is required when rejecting")
		}
		r.Status = StatusRecountRequired
		responded := now
		r.Timestamps.RespondedAt = &responded
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown action %q", action))
	}

	r.Response = &ClientResponse{Action: action, Comment: comment, ResponderID: responderID}
	return nil
}

// IsAssociatedWith reports whether the record is earmarked for the given client.
func (r *AuditRecord) IsAssociatedWith(clientID string) bool {
	return r.ClientID != "" && r.ClientID == clientID
}

// RecordFilter narrows the admin record listing. Unset fields are not applied.
type RecordFilter struct {
	From       *time.Time // inclusive
	To         *time.Time // inclusive
	Location   string     // exact
	StaffName  string     // case-insensitive substring
	ClientCode string
	Pincode    string
	StaffID    string
	Status     RecordStatus
}

// Matches evaluates the filter in memory.
func (f RecordFilter) Matches(r *AuditRecord) bool {
	entered := r.Timestamps.EnteredAt
	if f.From != nil && entered.Before(*f.From) {
		return false
	}
	if f.To != nil && entered.After(*f.To) {
		return false
	}
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	if f.StaffName != "" && !strings.Contains(strings.ToLower(r.StaffName), strings.ToLower(f.StaffName)) {
		return false
	}
	if f.ClientCode != "" && r.ClientCode != f.ClientCode {
		return false
	}
	if f.Pincode != "" && r.ClientPincode != f.Pincode {
		return false
	}
	if f.StaffID != "" && r.StaffID != f.StaffID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
