package notify

import (
	"testing"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventTime = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func sampleRecord() *domain.AuditRecord {
	return &domain.AuditRecord{
		RecordID:       "rec-42",
		BinID:          "A2",
		Location:       "WH-1",
		StaffID:        "staff-1",
		StaffName:      "Ravi Kumar",
		BookQuantity:   decimal.NewFromInt(10),
		ActualQuantity: decimal.NewFromInt(7),
		Discrepancy:    decimal.NewFromInt(3),
		Status:         domain.StatusPendingClient,
		Timestamps:     domain.RecordTimestamps{EnteredAt: eventTime},
	}
}

func sampleClient() *domain.Account {
	return &domain.Account{
		AccountID:  "client-1",
		Name:       "Acme Stores",
		Email:      "ops@acme.test",
		Role:       domain.RoleClient,
		Company:    "Acme Retail Pvt Ltd",
		UniqueCode: "ACME01",
	}
}

func goldenAssert(t *testing.T, name string, n Notice) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(n.String()))
}

func TestCompose_Golden(t *testing.T) {
	rejected := sampleRecord()
	rejected.Status = domain.StatusRecountRequired
	rejected.Response = &domain.ClientResponse{Action: domain.ActionRejected, Comment: "recount", ResponderID: "client-1"}

	tests := []struct {
		name      string
		event     domain.Event
		recipient Recipient
	}{
		{
			name:      "record_pending",
			event:     domain.RecordPendingEvent(sampleRecord(), eventTime),
			recipient: Recipient{AccountID: "client-1", Name: "Acme Stores", Email: "ops@acme.test", Phone: "+919876543210"},
		},
		{
			name:      "record_rejected",
			event:     domain.RecordRespondedEvent(rejected, eventTime),
			recipient: Recipient{AccountID: "staff-1", Name: "Ravi Kumar", Email: "ravi@warehouse.test"},
		},
		{
			name:      "account_registered",
			event:     domain.AccountRegisteredEvent(sampleClient(), eventTime),
			recipient: Recipient{AccountID: "admin-1", Name: "Asha Admin", Email: "admin@portal.test"},
		},
		{
			name:      "account_approved",
			event:     domain.AccountApprovedEvent(sampleClient(), eventTime),
			recipient: Recipient{AccountID: "client-1", Name: "Acme Stores", Email: "ops@acme.test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Compose(tt.event, tt.recipient)
			require.NoError(t, err)
			assert.Equal(t, tt.event.Type, n.Event)
			goldenAssert(t, tt.name, n)
		})
	}
}

func TestCompose_OmitsEmptyOptionalLines(t *testing.T) {
	rec := sampleRecord()
	rec.Location = ""
	n, err := Compose(domain.RecordPendingEvent(rec, eventTime), Recipient{Name: "Acme", Email: "ops@acme.test"})
	require.NoError(t, err)
	assert.NotContains(t, n.Body, "Location:")
	assert.Equal(t, "rec-42", n.RecordID)
}

func TestCompose_RejectsIncompleteEvents(t *testing.T) {
	_, err := Compose(domain.Event{Type: domain.EventRecordPending}, Recipient{})
	assert.Error(t, err)

	_, err = Compose(domain.Event{Type: domain.EventAccountApproved}, Recipient{})
	assert.Error(t, err)

	_, err = Compose(domain.Event{Type: domain.EventType("unknown")}, Recipient{})
	assert.Error(t, err)
}

func TestCompose_RequiresAnAddress(t *testing.T) {
	event := domain.RecordPendingEvent(sampleRecord(), eventTime)

	_, err := Compose(event, Recipient{AccountID: "client-9", Name: "Nobody"})
	assert.ErrorContains(t, err, "client-9")

	n, err := Compose(event, Recipient{AccountID: "client-9", Name: "Phone Only", Phone: "+919876543210"})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", n.To.Phone)
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("(650) 253-0000", "US")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)

	got, err = NormalizePhone("+1 650 253 0000", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got, "explicit country code wins over the default region")

	_, err = NormalizePhone("12345", "US")
	assert.Error(t, err)

	_, err = NormalizePhone("  ", "US")
	assert.Error(t, err)
}

func TestRecipientFor_DropsInvalidPhone(t *testing.T) {
	r := RecipientFor("Ravi", "staff-1", "ravi@warehouse.test", "not a phone", "US")
	assert.Empty(t, r.Phone)

	r = RecipientFor("Ravi", "staff-1", "ravi@warehouse.test", "650-253-0000", "US")
	assert.Equal(t, "+16502530000", r.Phone)
}
