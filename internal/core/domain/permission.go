package domain

// Operation names a gated action of the portal.
type Operation string

const (
	OpApproveAccount      Operation = "account.approve"
	OpListAccounts        Operation = "account.list"
	OpListPendingAccounts Operation = "account.list_pending"
	OpListLoginHistory    Operation = "account.login_history"
	OpEditAccountDetails  Operation = "account.edit_details"

	OpCreateRecord       Operation = "record.create"
	OpListPendingRecords Operation = "record.list_pending"
	OpRespondToRecord    Operation = "record.respond"
	OpListAllRecords     Operation = "record.list_all"
	OpExportRecords      Operation = "record.export"
	OpListOwnRecords     Operation = "record.list_own"
	OpViewRecord         Operation = "record.view"
	OpListClientCodes    Operation = "client.list_codes"
)

var permissions = map[Operation][]Role{
	OpApproveAccount:      {RoleAdmin},
	OpListAccounts:        {RoleAdmin},
	OpListPendingAccounts: {RoleAdmin},
	OpListLoginHistory:    {RoleAdmin},
	OpEditAccountDetails:  {RoleAdmin},

	OpCreateRecord:       {RoleStaff, RoleAdmin},
	OpListPendingRecords: {RoleClient, RoleAdmin},
	OpRespondToRecord:    {RoleClient, RoleAdmin},
	OpListAllRecords:     {RoleAdmin},
	OpExportRecords:      {RoleAdmin},
	OpListOwnRecords:     {RoleStaff, RoleAdmin},
	OpViewRecord:         {RoleStaff, RoleClient, RoleAdmin},
	OpListClientCodes:    {RoleStaff, RoleAdmin},
}

// Permit decides whether role may invoke op. Unknown operations are denied.
func Permit(role Role, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// CanViewRecord applies the per-record visibility rule on top of Permit(OpViewRecord).
// Admins see everything, staff only what they authored, clients only records pending
// against them (or open to all clients) and records they responded to.
func CanViewRecord(viewer *Account, rec *AuditRecord) bool {
	if viewer == nil || rec == nil || !Permit(viewer.Role, OpViewRecord) {
		return false
	}
	switch viewer.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return rec.StaffID == viewer.AccountID
	case RoleClient:
		if rec.Response != nil && rec.Response.ResponderID == viewer.AccountID {
			return true
		}
		if rec.Status == StatusPendingClient {
			return rec.ClientID == "" || rec.ClientID == viewer.AccountID
		}
		return false
	}
	return false
}
