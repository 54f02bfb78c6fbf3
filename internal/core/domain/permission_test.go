package domain_test

import (
	"testing"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPermit(t *testing.T) {
	tests := []struct {
		op      domain.Operation
		allowed []domain.Role
	}{
		{domain.OpApproveAccount, []domain.Role{domain.RoleAdmin}},
		{domain.OpListAccounts, []domain.Role{domain.RoleAdmin}},
		{domain.OpListLoginHistory, []domain.Role{domain.RoleAdmin}},
		{domain.OpEditAccountDetails, []domain.Role{domain.RoleAdmin}},
		{domain.OpRespondToRecord, []domain.Role{domain.RoleClient, domain.RoleAdmin}},
		{domain.OpListPendingRecords, []domain.Role{domain.RoleClient, domain.RoleAdmin}},
		{domain.OpCreateRecord, []domain.Role{domain.RoleStaff, domain.RoleAdmin}},
		{domain.OpListAllRecords, []domain.Role{domain.RoleAdmin}},
		{domain.OpListOwnRecords, []domain.Role{domain.RoleStaff, domain.RoleAdmin}},
		{domain.OpListClientCodes, []domain.Role{domain.RoleStaff, domain.RoleAdmin}},
	}

	all := []domain.Role{domain.RoleStaff, domain.RoleClient, domain.RoleAdmin}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			for _, role := range all {
				assert.Equal(t, contains(tt.allowed, role), domain.Permit(role, tt.op), "role %s", role)
			}
		})
	}

	assert.False(t, domain.Permit(domain.RoleAdmin, domain.Operation("unknown")))
	assert.False(t, domain.Permit(domain.Role("auditor"), domain.OpViewRecord))
}

func contains(roles []domain.Role, r domain.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func TestCanViewRecord(t *testing.T) {
	admin := &domain.Account{AccountID: "admin-1", Role: domain.RoleAdmin}
	staff := &domain.Account{AccountID: "staff-1", Role: domain.RoleStaff}
	otherStaff := &domain.Account{AccountID: "staff-2", Role: domain.RoleStaff}
	client := &domain.Account{AccountID: "client-1", Role: domain.RoleClient}
	otherClient := &domain.Account{AccountID: "client-2", Role: domain.RoleClient}

	open := &domain.AuditRecord{StaffID: "staff-1", Status: domain.StatusPendingClient}
	earmarked := &domain.AuditRecord{StaffID: "staff-1", ClientID: "client-1", Status: domain.StatusPendingClient}
	responded := &domain.AuditRecord{
		StaffID:  "staff-1",
		Status:   domain.StatusRecountRequired,
		Response: &domain.ClientResponse{Action: domain.ActionRejected, ResponderID: "client-1"},
	}
	auto := &domain.AuditRecord{StaffID: "staff-1", Status: domain.StatusAutoApproved}

	tests := []struct {
		name   string
		viewer *domain.Account
		rec    *domain.AuditRecord
		want   bool
	}{
		{"admin sees everything", admin, auto, true},
		{"staff sees own", staff, auto, true},
		{"staff cannot see others", otherStaff, auto, false},
		{"client sees open pending", client, open, true},
		{"client sees earmarked pending", client, earmarked, true},
		{"other client cannot see earmarked", otherClient, earmarked, false},
		{"responder sees responded", client, responded, true},
		{"non-responder cannot see responded", otherClient, responded, false},
		{"client cannot see auto approved", client, auto, false},
		{"nil viewer", nil, auto, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanViewRecord(tt.viewer, tt.rec))
		})
	}
}
