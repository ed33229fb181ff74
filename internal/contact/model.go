package contact

import (
	"strings"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/uptrace/bun"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// Label is the capitalized status shown to operators.
func (s Status) Label() string {
	v := strings.ToLower(string(s))
	if v == "" {
		return ""
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// ContactMessage is one stored contact form submission. Text fields hold the
// HTML-escaped values produced by the validator.
type ContactMessage struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,type:text,notnull" json:"name"`
	Email     string    `bun:"email,type:text,notnull" json:"email"`
	Phone     string    `bun:"phone,type:text,nullzero" json:"phone,omitempty"`
	Subject   string    `bun:"subject,type:text,notnull" json:"subject"`
	Message   string    `bun:"message,type:text,notnull" json:"message"`
	Status    Status    `bun:"status,type:varchar(10),nullzero,notnull,default:'new'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var Table = store.Table{
	Name:  "contacts",
	Model: (*ContactMessage)(nil),
	Indexes: []store.Index{
		{Name: "idx_contacts_email", Columns: []string{"email"}},
		{Name: "idx_contacts_created_at", Columns: []string{"created_at"}},
	},
	TouchUpdatedAt: true,
}

// Samples returns the rows inserted into an empty contacts table when seeding is enabled.
func Samples() []ContactMessage {
	return []ContactMessage{
		{
			Name:    "John Doe",
			Email:   "john@example.com",
			Phone:   "+1234567890",
			Subject: "Website Inquiry",
			Message: "I would like to discuss a potential project.",
			Status:  StatusNew,
		},
	}
}
