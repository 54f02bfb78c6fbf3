package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordMapping_NullableColumns(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	open := domain.AuditRecord{
		RecordID:       "rec-1",
		BinID:          "A1",
		StaffID:        "staff-1",
		BookQuantity:   decimal.NewFromInt(10),
		ActualQuantity: decimal.NewFromInt(7),
		Discrepancy:    decimal.NewFromInt(3),
		Status:         domain.StatusPendingClient,
		Timestamps:     domain.RecordTimestamps{EnteredAt: now},
	}

	row := ToModelAuditRecord(open)
	assert.Nil(t, row.ClientID, "unassociated record stores NULL client")
	assert.Nil(t, row.Notes)
	assert.Nil(t, row.ResponseAction)

	back := ToDomainAuditRecord(row)
	assert.Equal(t, open, back)
}

func TestAuditRecordMapping_Response(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	rec := domain.AuditRecord{
		RecordID:   "rec-2",
		Status:     domain.StatusRecountRequired,
		Response:   &domain.ClientResponse{Action: domain.ActionRejected, Comment: "recount", ResponderID: "client-1"},
		Timestamps: domain.RecordTimestamps{EnteredAt: now, RespondedAt: &now},
	}

	row := ToModelAuditRecord(rec)
	require.NotNil(t, row.ResponseAction)
	assert.Equal(t, "rejected", *row.ResponseAction)

	back := ToDomainAuditRecord(row)
	require.NotNil(t, back.Response)
	assert.Equal(t, *rec.Response, *back.Response)
}

func TestAccountMapping_EmptyAssignments(t *testing.T) {
	row := ToModelAccount(domain.Account{AccountID: "a", Role: domain.RoleStaff})
	assert.NotNil(t, row.AssignedClientIDs, "array column must not be NULL")
	assert.Nil(t, row.UniqueCode)
}
