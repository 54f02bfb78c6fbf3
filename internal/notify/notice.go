// Package notify composes and dispatches out-of-band notices (email and WhatsApp) about
// portal events. Delivery itself happens in a downstream worker fed through Pub/Sub.
package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// Recipient is who a notice is addressed to. Phone is E.164 or empty.
type Recipient struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Notice is one composed message for one recipient.
type Notice struct {
	Event     domain.EventType `json:"event"`
	RecordID  string           `json:"recordId,omitempty"`
	To        Recipient        `json:"to"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	ShortText string           `json:"shortText"` // WhatsApp / SMS
}

// String renders the notice the way it is stored in golden files and debug logs.
func (n Notice) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s <%s>\n", n.To.Name, n.To.Email)
	if n.To.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", n.To.Phone)
	}
	fmt.Fprintf(&b, "Subject: %s\n\n%s\n--\n%s\n", n.Subject, n.Body, n.ShortText)
	return b.String()
}

type noticeTemplate struct {
	subject string
	body    *template.Template
	short   *template.Template
}

const timeLayout = "02 Jan 2006 15:04 MST"

var funcs = template.FuncMap{
	"when": func(e domain.Event) string { return e.OccurredAt.UTC().Format(timeLayout) },
}

var templates = map[domain.EventType]noticeTemplate{
	domain.EventRecordPending: {
		subject: "New Inventory Entry Requires Review",
		body: template.Must(template.New("pending").Funcs(funcs).Parse(
			`Hello {{.Recipient.Name}},

A new inventory count requires your review:
  Bin ID:          {{.Record.BinID}}
{{- with .Record.Location}}
  Location:        {{.}}{{end}}
  Book quantity:   {{.Record.BookQuantity}}
  Actual quantity: {{.Record.ActualQuantity}}
  Discrepancy:     {{.Record.Discrepancy}}
  Counted by:      {{.Record.StaffName}} on {{when .Event}}

Please log in to the portal to review this entry.`)),
		short: template.Must(template.New("pending_short").Parse(
			`New inventory entry requires review. Bin ID: {{.Record.BinID}}, Discrepancy: {{.Record.Discrepancy}}`)),
	},
	domain.EventRecordResponded: {
		subject: "Inventory Entry Update",
		body: template.Must(template.New("responded").Funcs(funcs).Parse(
			`Hello {{.Recipient.Name}},

Recount required for inventory entry.
  Bin ID:      {{.Record.BinID}}
  Discrepancy: {{.Record.Discrepancy}}
{{- with .Record.Response}}
  Comment:     {{.Comment}}{{end}}

Please log in to the portal for more details.`)),
		short: template.Must(template.New("responded_short").Parse(
			`Recount required for inventory entry. Bin ID: {{.Record.BinID}}`)),
	},
	domain.EventAccountRegistered: {
		subject: "New User Pending Approval",
		body: template.Must(template.New("registered").Funcs(funcs).Parse(
			`Hello {{.Recipient.Name}},

A new user has registered and is pending your approval:
  Name:  {{.Account.Name}}
  Email: {{.Account.Email}}
  Role:  {{.Account.Role}}
{{- with .Account.Company}}
  Company: {{.}}{{end}}
{{- with .Account.UniqueCode}}
  Unique Code: {{.}}{{end}}

Please log in to the admin portal to review and approve this user.`)),
		short: template.Must(template.New("registered_short").Parse(
			`New user {{.Account.Name}} ({{.Account.Role}}) is pending approval. Check admin portal.`)),
	},
	domain.EventAccountApproved: {
		subject: "Your Account Has Been Approved!",
		body: template.Must(template.New("approved").Parse(
			`Dear {{.Recipient.Name}},

Your account for the Inventory Audit Control Portal has been approved by an administrator.
You can now log in using your credentials.`)),
		short: template.Must(template.New("approved_short").Parse(
			`Your Inventory Audit Control Portal account has been approved! You can now log in.`)),
	},
}

type templateData struct {
	Event     domain.Event
	Recipient Recipient
	Record    *domain.AuditRecord
	Account   *domain.Account
}

// Compose renders the notice for event addressed to recipient.
func Compose(event domain.Event, recipient Recipient) (Notice, error) {
	tpl, ok := templates[event.Type]
	if !ok {
		return Notice{}, fmt.Errorf("no notice template for event %q", event.Type)
	}
	if event.Record == nil && (event.Type == domain.EventRecordPending || event.Type == domain.EventRecordResponded) {
		return Notice{}, fmt.Errorf("event %q carries no record", event.Type)
	}
	if event.Account == nil && (event.Type == domain.EventAccountRegistered || event.Type == domain.EventAccountApproved) {
		return Notice{}, fmt.Errorf("event %q carries no account", event.Type)
	}
	if strings.TrimSpace(recipient.Email) == "" && recipient.Phone == "" {
		return Notice{}, fmt.Errorf("recipient %q has no email or phone", recipient.AccountID)
	}

	data := templateData{Event: event, Recipient: recipient, Record: event.Record, Account: event.Account}
	var body, short bytes.Buffer
	if err := tpl.body.Execute(&body, data); err != nil {
		return Notice{}, fmt.Errorf("render %s body: %w", event.Type, err)
	}
	if err := tpl.short.Execute(&short, data); err != nil {
		return Notice{}, fmt.Errorf("render %s short text: %w", event.Type, err)
	}

	n := Notice{
		Event:     event.Type,
		To:        recipient,
		Subject:   tpl.subject,
		Body:      body.String(),
		ShortText: short.String(),
	}
	if event.Record != nil {
		n.RecordID = event.Record.RecordID
	}
	return n, nil
}
