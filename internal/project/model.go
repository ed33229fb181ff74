package project

import (
	"bytes"
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day. It is stored in a DATE column
// and encoded in JSON as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	t, err := time.Parse(`"`+dateLayout+`"`, string(b))
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", b, err)
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		y, m, day := v.Date()
		*d = NewDate(y, m, day)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Project is one portfolio catalog entry. The stored comma-delimited
// technology list is exposed as TechStack after every scan.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Title        string    `bun:"title,type:varchar(255),notnull" json:"title"`
	Description  string    `bun:"description,type:text,notnull" json:"description"`
	TechStackRaw string    `bun:"tech_stack,type:varchar(255),nullzero" json:"-"`
	TechStack    []string  `bun:"-" json:"tech_stack"`
	URL          *string   `bun:"url,type:varchar(255)" json:"url"`
	GithubURL    *string   `bun:"github_url,type:varchar(255)" json:"github_url"`
	ImageURL     *string   `bun:"image_url,type:varchar(255)" json:"image_url"`
	StartDate    *Date     `bun:"start_date,type:date" json:"start_date"`
	EndDate      *Date     `bun:"end_date,type:date" json:"end_date"`
	Featured     bool      `bun:"featured,notnull" json:"featured"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.AfterScanRowHook = (*Project)(nil)

func (p *Project) AfterScanRow(ctx context.Context) error {
	p.TechStack = ParseTechStack(p.TechStackRaw)
	return nil
}

// ParseTechStack splits a comma-delimited technology list and trims every
// element. Empty segments are kept; a blank list yields an empty slice.
func ParseTechStack(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

var Table = store.Table{
	Name:  "projects",
	Model: (*Project)(nil),
	Indexes: []store.Index{
		{Name: "idx_projects_featured", Columns: []string{"featured"}},
		{Name: "idx_projects_created_at", Columns: []string{"created_at"}},
	},
	TouchUpdatedAt: true,
}

// Samples returns the rows inserted into an empty projects table when seeding is enabled.
func Samples() []Project {
	return []Project{
		{
			Title:        "Personal Portfolio Website",
			Description:  "A responsive portfolio website built with HTML5, CSS3, JavaScript, PHP and MySQL",
			TechStackRaw: "HTML5, CSS3, JavaScript, PHP, MySQL",
			Featured:     true,
		},
	}
}
