package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/core/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

// steppingClock returns a strictly increasing time on every call.
func steppingClock(start time.Time) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(n.Add(1)) * time.Minute)
	}
}

type AuditRecordServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	repos         portsrepo.RepositoryProvider
	notifications *recordingNotifications
	service       portssvc.AuditRecordSvcFacade

	admin   *domain.Account
	staff   *domain.Account
	client  *domain.Account
	client2 *domain.Account
}

func (suite *AuditRecordServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	suite.notifications = &recordingNotifications{}
	suite.service = services.NewAuditRecordService(
		suite.repos.RecordRepo,
		suite.repos.AccountRepo,
		suite.notifications,
		services.WithClock(steppingClock(time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))),
	)

	suite.admin = suite.seed(domain.Account{AccountID: "admin-1", Name: "Asha Admin", Email: "admin@example.com", Role: domain.RoleAdmin, IsApproved: true})
	suite.staff = suite.seed(domain.Account{AccountID: "staff-1", Name: "Ravi Kumar", Email: "ravi@example.com", Role: domain.RoleStaff, IsApproved: true})
	suite.client = suite.seed(domain.Account{
		AccountID: "client-1", Name: "Acme Stores", Email: "ops@acme.test", Role: domain.RoleClient, IsApproved: true,
		Company: "Acme", UniqueCode: "ACME01", Location: domain.Location{City: "Pune", Pincode: "411001"},
	})
	suite.client2 = suite.seed(domain.Account{
		AccountID: "client-2", Name: "Beta Mart", Email: "ops@beta.test", Role: domain.RoleClient, IsApproved: true,
		Company: "Beta", UniqueCode: "BETA01", Location: domain.Location{City: "Chennai", Pincode: "600001"},
	})
}

func TestAuditRecordServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditRecordServiceTestSuite))
}

func (suite *AuditRecordServiceTestSuite) seed(acc domain.Account) *domain.Account {
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(suite.ctx, acc))
	return &acc
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *AuditRecordServiceTestSuite) create(book, actual string, mutate ...func(*dto.CreateRecordRequest)) *domain.AuditRecord {
	req := dto.CreateRecordRequest{BinID: "A2", Location: "WH-1", BookQuantity: qty(book), ActualQuantity: qty(actual)}
	for _, m := range mutate {
		m(&req)
	}
	rec, err := suite.service.CreateRecord(suite.ctx, suite.staff, req)
	suite.Require().NoError(err)
	return rec
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_ExactMatchAutoApprovesSilently() {
	rec := suite.create("10", "10")

	suite.Equal(domain.StatusAutoApproved, rec.Status)
	suite.True(rec.Discrepancy.IsZero())
	suite.NotNil(rec.Timestamps.FinalStatusAt)
	suite.Empty(suite.notifications.Events())
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_DiscrepancyNotifiesClients() {
	rec := suite.create("10", "7")

	suite.Equal(domain.StatusPendingClient, rec.Status)
	suite.True(decimal.NewFromInt(3).Equal(rec.Discrepancy))
	suite.Require().Len(suite.notifications.Events(), 1)
	suite.Equal([]domain.Audience{domain.RoleAudience(domain.RoleClient)}, suite.notifications.Events()[0].Audiences)

	stored, err := suite.repos.RecordRepo.FindRecordByID(suite.ctx, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingClient, stored.Status)
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_ClientReference() {
	byCode := suite.create("10", "9", func(r *dto.CreateRecordRequest) { r.ClientCode = "ACME01" })
	suite.Equal("client-1", byCode.ClientID)
	suite.Equal("411001", byCode.ClientPincode)
	suite.Equal([]domain.Audience{domain.AccountAudience("client-1")}, suite.notifications.Events()[0].Audiences)

	byID := suite.create("10", "9", func(r *dto.CreateRecordRequest) { r.ClientID = "client-2" })
	suite.Equal("BETA01", byID.ClientCode)

	_, err := suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A1", BookQuantity: qty("1"), ActualQuantity: qty("2"), ClientCode: "NOPE",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A1", BookQuantity: qty("1"), ActualQuantity: qty("2"), ClientID: "staff-1",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_SingleAssignedClientIsUsed() {
	suite.staff.AssignedClientIDs = []string{"client-2"}

	rec := suite.create("5", "4")

	suite.Equal("client-2", rec.ClientID)
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_Forbidden() {
	_, err := suite.service.CreateRecord(suite.ctx, suite.client, dto.CreateRecordRequest{
		BinID: "A1", BookQuantity: qty("1"), ActualQuantity: qty("1"),
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal(403, apperrors.StatusCode(err))
}

func (suite *AuditRecordServiceTestSuite) TestCreateRecord_Validation() {
	_, err := suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{BinID: "A1", BookQuantity: qty("1")})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A1", BookQuantity: qty("-1"), ActualQuantity: qty("1"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A1", BookQuantity: qty("1.0000001"), ActualQuantity: qty("1"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.notifications.Events())
}

func (suite *AuditRecordServiceTestSuite) TestCountRejectRecountListing() {
	suite.staff.AssignedClientIDs = []string{"client-1"}

	a1, err := suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A1", Location: "WH-1", BookQuantity: qty("10"), ActualQuantity: qty("10"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusAutoApproved, a1.Status)
	suite.True(a1.Discrepancy.IsZero())
	suite.Empty(suite.notifications.Events())

	a2, err := suite.service.CreateRecord(suite.ctx, suite.staff, dto.CreateRecordRequest{
		BinID: "A2", Location: "WH-1", BookQuantity: qty("10"), ActualQuantity: qty("7"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingClient, a2.Status)
	suite.True(decimal.NewFromInt(3).Equal(a2.Discrepancy))
	events := suite.notifications.Events()
	suite.Require().Len(events, 1)
	suite.Equal(domain.EventRecordPending, events[0].Type)
	suite.Equal([]domain.Audience{domain.AccountAudience("client-1")}, events[0].Audiences)

	pending, err := suite.service.ListPendingRecords(suite.ctx, suite.client)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(a2.RecordID, pending[0].RecordID)

	rejected, err := suite.service.Respond(suite.ctx, suite.client, a2.RecordID, dto.RespondRequest{
		Action: domain.ActionRejected, Comment: "recount",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRecountRequired, rejected.Status)
	suite.Require().NotNil(rejected.Response)
	suite.Equal("recount", rejected.Response.Comment)

	all, err := suite.service.ListRecords(suite.ctx, suite.admin, domain.RecordFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.Equal(a2.RecordID, all[0].RecordID)
	suite.Equal(domain.StatusRecountRequired, all[0].Status)
	suite.Equal(a1.RecordID, all[1].RecordID)
	suite.Equal(domain.StatusAutoApproved, all[1].Status)
	suite.True(all[0].Timestamps.EnteredAt.After(all[1].Timestamps.EnteredAt))
}

func (suite *AuditRecordServiceTestSuite) TestListPendingRecords_ClientVisibility() {
	open := suite.create("10", "7")
	mine := suite.create("10", "8", func(r *dto.CreateRecordRequest) { r.ClientCode = "ACME01" })
	theirs := suite.create("10", "9", func(r *dto.CreateRecordRequest) { r.ClientCode = "BETA01" })
	suite.create("10", "10")

	ids := func(records []domain.AuditRecord) []string {
		var out []string
		for _, r := range records {
			out = append(out, r.RecordID)
		}
		return out
	}

	forClient, err := suite.service.ListPendingRecords(suite.ctx, suite.client)
	suite.Require().NoError(err)
	suite.Equal([]string{mine.RecordID, open.RecordID}, ids(forClient))

	forAdmin, err := suite.service.ListPendingRecords(suite.ctx, suite.admin)
	suite.Require().NoError(err)
	suite.Equal([]string{theirs.RecordID, mine.RecordID, open.RecordID}, ids(forAdmin))

	_, err = suite.service.ListPendingRecords(suite.ctx, suite.staff)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuditRecordServiceTestSuite) TestRespond_RejectionRequiresRecount() {
	rec := suite.create("10", "7")

	_, err := suite.service.Respond(suite.ctx, suite.client, rec.RecordID, dto.RespondRequest{Action: domain.ActionRejected})
	suite.ErrorIs(err, apperrors.ErrValidation)

	out, err := suite.service.Respond(suite.ctx, suite.client, rec.RecordID, dto.RespondRequest{
		Action: domain.ActionRejected, Comment: "recount please",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRecountRequired, out.Status)
	suite.Nil(out.Timestamps.FinalStatusAt)
	suite.Equal("client-1", out.Response.ResponderID)

	events := suite.notifications.Events()
	suite.Require().Len(events, 2)
	suite.Equal(domain.EventRecordResponded, events[1].Type)
	suite.Equal([]domain.Audience{domain.AccountAudience("staff-1")}, events[1].Audiences)

	_, err = suite.service.Respond(suite.ctx, suite.client, rec.RecordID, dto.RespondRequest{Action: domain.ActionApproved})
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *AuditRecordServiceTestSuite) TestRespond_Guards() {
	theirs := suite.create("10", "9", func(r *dto.CreateRecordRequest) { r.ClientCode = "BETA01" })
	auto := suite.create("3", "3")

	_, err := suite.service.Respond(suite.ctx, suite.client, theirs.RecordID, dto.RespondRequest{Action: domain.ActionApproved})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.Respond(suite.ctx, suite.staff, theirs.RecordID, dto.RespondRequest{Action: domain.ActionApproved})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.Respond(suite.ctx, suite.client, auto.RecordID, dto.RespondRequest{Action: domain.ActionApproved})
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = suite.service.Respond(suite.ctx, suite.client, "missing", dto.RespondRequest{Action: domain.ActionApproved})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	out, err := suite.service.Respond(suite.ctx, suite.admin, theirs.RecordID, dto.RespondRequest{Action: domain.ActionApproved})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusClientApproved, out.Status)
	suite.Equal("client-2", out.ClientID)
	suite.Equal("admin-1", out.Response.ResponderID)
}

func (suite *AuditRecordServiceTestSuite) TestListRecords_Filters() {
	suite.create("10", "7", func(r *dto.CreateRecordRequest) { r.ClientCode = "ACME01"; r.Location = "WH-1" })
	suite.create("10", "10", func(r *dto.CreateRecordRequest) { r.ClientCode = "BETA01"; r.Location = "WH-2" })
	latest := suite.create("4", "2", func(r *dto.CreateRecordRequest) { r.Location = "WH-1" })

	all, err := suite.service.ListRecords(suite.ctx, suite.admin, domain.RecordFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal(latest.RecordID, all[0].RecordID)

	wh1, err := suite.service.ListRecords(suite.ctx, suite.admin, domain.RecordFilter{Location: "WH-1"})
	suite.Require().NoError(err)
	suite.Len(wh1, 2)

	pin, err := suite.service.ListRecords(suite.ctx, suite.admin, domain.RecordFilter{Pincode: "600001"})
	suite.Require().NoError(err)
	suite.Require().Len(pin, 1)
	suite.Equal("BETA01", pin[0].ClientCode)

	staff, err := suite.service.ListRecords(suite.ctx, suite.admin, domain.RecordFilter{StaffName: "RAVI"})
	suite.Require().NoError(err)
	suite.Len(staff, 3)

	_, err = suite.service.ListRecords(suite.ctx, suite.staff, domain.RecordFilter{})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuditRecordServiceTestSuite) TestListOwnAndGetRecord() {
	rec := suite.create("10", "7")
	other := suite.seed(domain.Account{AccountID: "staff-2", Name: "Priya", Email: "priya@example.com", Role: domain.RoleStaff, IsApproved: true})

	own, err := suite.service.ListOwnRecords(suite.ctx, suite.staff)
	suite.Require().NoError(err)
	suite.Len(own, 1)

	none, err := suite.service.ListOwnRecords(suite.ctx, other)
	suite.Require().NoError(err)
	suite.Empty(none)

	got, err := suite.service.GetRecord(suite.ctx, suite.client, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(rec.RecordID, got.RecordID)

	_, err = suite.service.GetRecord(suite.ctx, other, rec.RecordID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuditRecordServiceTestSuite) TestExportRecords() {
	suite.create("10", "7", func(r *dto.CreateRecordRequest) { r.ClientCode = "ACME01"; r.Notes = "shelf, top row" })
	suite.create("2", "2")

	var buf bytes.Buffer
	suite.Require().NoError(suite.service.ExportRecords(suite.ctx, suite.admin, domain.RecordFilter{}, portssvc.ExportCSV, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	suite.Equal("Record ID", rows[0][0])
	suite.Equal("auto-approved", rows[1][10])
	suite.Equal("ACME01", rows[2][5])
	suite.Equal("shelf, top row", rows[2][15])

	buf.Reset()
	suite.Require().NoError(suite.service.ExportRecords(suite.ctx, suite.admin, domain.RecordFilter{}, portssvc.ExportXLSX, &buf))
	f, err := excelize.OpenReader(&buf)
	suite.Require().NoError(err)
	defer f.Close()
	sheetRows, err := f.GetRows("Audit Records")
	suite.Require().NoError(err)
	suite.Len(sheetRows, 3)
	suite.Equal("Discrepancy", sheetRows[0][9])

	err = suite.service.ExportRecords(suite.ctx, suite.admin, domain.RecordFilter{}, portssvc.ExportFormat("pdf"), &buf)
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.service.ExportRecords(suite.ctx, suite.staff, domain.RecordFilter{}, portssvc.ExportCSV, &buf)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestRespond_ConcurrentResponsesHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	notifications := &recordingNotifications{}
	svc := services.NewAuditRecordService(repos.RecordRepo, repos.AccountRepo, notifications)

	staff := domain.Account{AccountID: "staff-1", Name: "Ravi", Email: "ravi@example.com", Role: domain.RoleStaff, IsApproved: true}
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, staff))
	rec, err := svc.CreateRecord(ctx, &staff, dto.CreateRecordRequest{BinID: "A2", BookQuantity: qty("10"), ActualQuantity: qty("7")})
	require.NoError(t, err)

	const responders = 12
	var (
		wg       sync.WaitGroup
		wins     atomic.Int32
		invalids atomic.Int32
	)
	for i := 0; i < responders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := &domain.Account{AccountID: "client-" + string(rune('a'+i)), Role: domain.RoleClient, IsApproved: true}
			req := dto.RespondRequest{Action: domain.ActionApproved}
			if i%2 == 1 {
				req = dto.RespondRequest{Action: domain.ActionRejected, Comment: "recount"}
			}
			_, err := svc.Respond(ctx, client, rec.RecordID, req)
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, apperrors.ErrInvalidState):
				invalids.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(responders-1), invalids.Load())

	stored, err := repos.RecordRepo.FindRecordByID(ctx, rec.RecordID)
	require.NoError(t, err)
	assert.NotEqual(t, domain.StatusPendingClient, stored.Status)
	require.NotNil(t, stored.Response)
	assert.Len(t, notifications.Events(), 2)
}
