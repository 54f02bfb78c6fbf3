package mapping

import (
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/models"
)

// ToModelAuditRecord flattens a domain record into its table row.
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	m := models.AuditRecord{
		RecordID:       d.RecordID,
		BinID:          d.BinID,
		Location:       d.Location,
		StaffID:        d.StaffID,
		StaffName:      d.StaffName,
		ClientID:       nullable(d.ClientID),
		ClientCode:     nullable(d.ClientCode),
		ClientPincode:  nullable(d.ClientPincode),
		BookQuantity:   d.BookQuantity,
		ActualQuantity: d.ActualQuantity,
		Discrepancy:    d.Discrepancy,
		Notes:          nullable(d.Notes),
		Status:         string(d.Status),
		EnteredAt:      d.Timestamps.EnteredAt,
		RespondedAt:    d.Timestamps.RespondedAt,
		FinalStatusAt:  d.Timestamps.FinalStatusAt,
	}
	if d.Response != nil {
		action := string(d.Response.Action)
		comment := d.Response.Comment
		m.ResponseAction = &action
		m.ResponseComment = &comment
		m.ResponderID = nullable(d.Response.ResponderID)
	}
	return m
}

// ToDomainAuditRecord rebuilds a domain record from its table row.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	d := domain.AuditRecord{
		RecordID:       m.RecordID,
		BinID:          m.BinID,
		Location:       m.Location,
		StaffID:        m.StaffID,
		StaffName:      m.StaffName,
		ClientID:       deref(m.ClientID),
		ClientCode:     deref(m.ClientCode),
		ClientPincode:  deref(m.ClientPincode),
		BookQuantity:   m.BookQuantity,
		ActualQuantity: m.ActualQuantity,
		Discrepancy:    m.Discrepancy,
		Notes:          deref(m.Notes),
		Status:         domain.RecordStatus(m.Status),
		Timestamps: domain.RecordTimestamps{
			EnteredAt:     m.EnteredAt,
			RespondedAt:   m.RespondedAt,
			FinalStatusAt: m.FinalStatusAt,
		},
	}
	if m.ResponseAction != nil {
		d.Response = &domain.ClientResponse{
			Action:      domain.ResponseAction(*m.ResponseAction),
			Comment:     deref(m.ResponseComment),
			ResponderID: deref(m.ResponderID),
		}
	}
	return d
}

// ToDomainAuditRecordSlice converts a slice of rows, keeping order.
func ToDomainAuditRecordSlice(ms []models.AuditRecord) []domain.AuditRecord {
	ds := make([]domain.AuditRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditRecord(m)
	}
	return ds
}
