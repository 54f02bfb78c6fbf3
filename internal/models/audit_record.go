package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditRecord is a row of the audit_records table. The client response is flattened into
// nullable columns.
type AuditRecord struct {
	RecordID        string          `db:"record_id"`
	BinID           string          `db:"bin_id"`
	Location        string          `db:"location"`
	StaffID         string          `db:"staff_id"`
	StaffName       string          `db:"staff_name"`
	ClientID        *string         `db:"client_id"`
	ClientCode      *string         `db:"client_code"`
	ClientPincode   *string         `db:"client_pincode"`
	BookQuantity    decimal.Decimal `db:"book_quantity"`
	ActualQuantity  decimal.Decimal `db:"actual_quantity"`
	Discrepancy     decimal.Decimal `db:"discrepancy"`
	Notes           *string         `db:"notes"`
	Status          string          `db:"status"`
	ResponseAction  *string         `db:"response_action"`
	ResponseComment *string         `db:"response_comment"`
	ResponderID     *string         `db:"responder_id"`
	EnteredAt       time.Time       `db:"entered_at"`
	RespondedAt     *time.Time      `db:"responded_at"`
	FinalStatusAt   *time.Time      `db:"final_status_at"`
}
