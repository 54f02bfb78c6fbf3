package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func staffAccount() *domain.Account {
	return &domain.Account{AccountID: "staff-1", Name: "Ravi Kumar", Role: domain.RoleStaff}
}

func clientAccount() *domain.Account {
	return &domain.Account{
		AccountID:  "client-1",
		Name:       "Acme Stores",
		Role:       domain.RoleClient,
		UniqueCode: "ACME01",
		Location:   domain.Location{City: "Pune", Pincode: "411001"},
	}
}

func newRecord(t *testing.T, book, actual string, client *domain.Account) *domain.AuditRecord {
	t.Helper()
	rec, err := domain.NewAuditRecord(domain.NewRecordInput{
		RecordID:       "rec-1",
		BinID:          "A2",
		Location:       "WH-1",
		BookQuantity:   decimal.RequireFromString(book),
		ActualQuantity: decimal.RequireFromString(actual),
	}, staffAccount(), client, fixedNow)
	require.NoError(t, err)
	return rec
}

func TestNewAuditRecord_Discrepancy(t *testing.T) {
	tests := []struct {
		name       string
		book       string
		actual     string
		wantDiff   string
		wantStatus domain.RecordStatus
	}{
		{name: "exact match", book: "10", actual: "10", wantDiff: "0", wantStatus: domain.StatusAutoApproved},
		{name: "short count", book: "10", actual: "7", wantDiff: "3", wantStatus: domain.StatusPendingClient},
		{name: "over count", book: "7", actual: "10", wantDiff: "3", wantStatus: domain.StatusPendingClient},
		{name: "tiny fractional difference", book: "10.000", actual: "9.999", wantDiff: "0.001", wantStatus: domain.StatusPendingClient},
		{name: "both zero", book: "0", actual: "0", wantDiff: "0", wantStatus: domain.StatusAutoApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecord(t, tt.book, tt.actual, nil)
			assert.True(t, decimal.RequireFromString(tt.wantDiff).Equal(rec.Discrepancy), "discrepancy %s", rec.Discrepancy)
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.Equal(t, fixedNow, rec.Timestamps.EnteredAt)
			if tt.wantStatus == domain.StatusAutoApproved {
				require.NotNil(t, rec.Timestamps.FinalStatusAt)
				assert.Equal(t, fixedNow, *rec.Timestamps.FinalStatusAt)
			} else {
				assert.Nil(t, rec.Timestamps.FinalStatusAt)
			}
			assert.Nil(t, rec.Timestamps.RespondedAt)
		})
	}
}

func TestNewAuditRecord_ClientAssociation(t *testing.T) {
	rec := newRecord(t, "10", "7", clientAccount())
	assert.Equal(t, "client-1", rec.ClientID)
	assert.Equal(t, "ACME01", rec.ClientCode)
	assert.Equal(t, "411001", rec.ClientPincode)
	assert.Equal(t, "Ravi Kumar", rec.StaffName)
	assert.True(t, rec.IsAssociatedWith("client-1"))
	assert.False(t, rec.IsAssociatedWith("client-2"))
}

func TestNewAuditRecord_Validation(t *testing.T) {
	_, err := domain.NewAuditRecord(domain.NewRecordInput{BinID: "  "}, staffAccount(), nil, fixedNow)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewAuditRecord(domain.NewRecordInput{
		BinID:          "A1",
		BookQuantity:   decimal.NewFromInt(-1),
		ActualQuantity: decimal.NewFromInt(1),
	}, staffAccount(), nil, fixedNow)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewAuditRecord_QuantityBounds(t *testing.T) {
	tests := []struct {
		name    string
		book    string
		actual  string
		wantErr bool
	}{
		{name: "six decimal places", book: "1.000001", actual: "1"},
		{name: "trailing zeros beyond scale", book: "1.00000000", actual: "1"},
		{name: "seventh decimal place", book: "1.0000001", actual: "1", wantErr: true},
		{name: "seventh decimal place on actual", book: "1", actual: "0.9999999", wantErr: true},
		{name: "fourteen integer digits", book: "99999999999999.999999", actual: "0"},
		{name: "fifteen integer digits", book: "123456789012345", actual: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := domain.NewAuditRecord(domain.NewRecordInput{
				BinID:          "A1",
				BookQuantity:   decimal.RequireFromString(tt.book),
				ActualQuantity: decimal.RequireFromString(tt.actual),
			}, staffAccount(), nil, fixedNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			want := decimal.RequireFromString(tt.book).Sub(decimal.RequireFromString(tt.actual)).Abs()
			assert.True(t, want.Equal(rec.Discrepancy))
			assert.True(t, rec.Discrepancy.Equal(rec.Discrepancy.Truncate(domain.MaxQuantityScale)))
		})
	}
}

func TestAuditRecord_ApplyResponse(t *testing.T) {
	later := fixedNow.Add(time.Hour)

	t.Run("approved sets response and final timestamps", func(t *testing.T) {
		rec := newRecord(t, "10", "7", nil)
		require.NoError(t, rec.ApplyResponse(domain.ActionApproved, "", "client-1", later))
		assert.Equal(t, domain.StatusClientApproved, rec.Status)
		require.NotNil(t, rec.Timestamps.RespondedAt)
		require.NotNil(t, rec.Timestamps.FinalStatusAt)
		assert.Equal(t, later, *rec.Timestamps.RespondedAt)
		assert.Equal(t, later, *rec.Timestamps.FinalStatusAt)
		assert.Equal(t, "client-1", rec.Response.ResponderID)
	})

	t.Run("rejected with comment requires recount", func(t *testing.T) {
		rec := newRecord(t, "10", "7", nil)
		require.NoError(t, rec.ApplyResponse(domain.ActionRejected, " recount ", "client-1", later))
		assert.Equal(t, domain.StatusRecountRequired, rec.Status)
		require.NotNil(t, rec.Timestamps.RespondedAt)
		assert.Nil(t, rec.Timestamps.FinalStatusAt)
		assert.Equal(t, "recount", rec.Response.Comment)
	})

	t.Run("rejected without comment fails validation and leaves record untouched", func(t *testing.T) {
		rec := newRecord(t, "10", "7", nil)
		err := rec.ApplyResponse(domain.ActionRejected, "   ", "client-1", later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, domain.StatusPendingClient, rec.Status)
		assert.Nil(t, rec.Response)
	})

	t.Run("unknown action fails validation", func(t *testing.T) {
		rec := newRecord(t, "10", "7", nil)
		err := rec.ApplyResponse(domain.ResponseAction("maybe"), "", "client-1", later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	for _, status := range []domain.RecordStatus{
		domain.StatusAutoApproved,
		domain.StatusClientApproved,
		domain.StatusClientRejected,
		domain.StatusRecountRequired,
	} {
		t.Run("responding to "+string(status)+" fails invalid state", func(t *testing.T) {
			rec := newRecord(t, "10", "7", nil)
			rec.Status = status
			err := rec.ApplyResponse(domain.ActionApproved, "", "client-1", later)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
			assert.True(t, status.IsTerminal())
		})
	}
}

func TestRecordFilter_Matches(t *testing.T) {
	rec := newRecord(t, "10", "7", clientAccount())
	before := fixedNow.Add(-time.Hour)
	after := fixedNow.Add(time.Hour)

	tests := []struct {
		name   string
		filter domain.RecordFilter
		want   bool
	}{
		{name: "empty filter", filter: domain.RecordFilter{}, want: true},
		{name: "inclusive lower bound", filter: domain.RecordFilter{From: &fixedNow}, want: true},
		{name: "inclusive upper bound", filter: domain.RecordFilter{To: &fixedNow}, want: true},
		{name: "range excludes", filter: domain.RecordFilter{From: &after}, want: false},
		{name: "range before", filter: domain.RecordFilter{To: &before}, want: false},
		{name: "location exact", filter: domain.RecordFilter{Location: "WH-1"}, want: true},
		{name: "location is not a substring match", filter: domain.RecordFilter{Location: "WH"}, want: false},
		{name: "staff name substring any case", filter: domain.RecordFilter{StaffName: "kUm"}, want: true},
		{name: "staff name miss", filter: domain.RecordFilter{StaffName: "priya"}, want: false},
		{name: "client code", filter: domain.RecordFilter{ClientCode: "ACME01"}, want: true},
		{name: "client code miss", filter: domain.RecordFilter{ClientCode: "OTHER"}, want: false},
		{name: "pincode", filter: domain.RecordFilter{Pincode: "411001"}, want: true},
		{name: "pincode miss", filter: domain.RecordFilter{Pincode: "560001"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(rec))
		})
	}
}
