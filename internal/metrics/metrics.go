package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	contactsSubmitted   metric.Int64Counter
	contactsRejected    metric.Int64Counter
	projectsViewed      metric.Int64Counter
	projectsListViewed  metric.Int64Counter
	adminContactsViewed metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.contactsSubmitted, err = meter.Int64Counter(
		"portfolio.contacts.submitted",
		metric.WithDescription("Total number of contact messages stored"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.contactsRejected, err = meter.Int64Counter(
		"portfolio.contacts.rejected",
		metric.WithDescription("Total number of contact submissions rejected"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.projectsViewed, err = meter.Int64Counter(
		"portfolio.projects.viewed",
		metric.WithDescription("Total number of project detail views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.projectsListViewed, err = meter.Int64Counter(
		"portfolio.projects.list_viewed",
		metric.WithDescription("Total number of times a project list was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.adminContactsViewed, err = meter.Int64Counter(
		"portfolio.admin.contacts_viewed",
		metric.WithDescription("Total number of times the contact listing was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordContactSubmitted(ctx context.Context) {
	if m != nil && m.contactsSubmitted != nil {
		m.contactsSubmitted.Add(ctx, 1)
	}
}

// RecordContactRejected counts a submission that was not stored. reason is
// "validation" or "storage".
func (m *Metrics) RecordContactRejected(ctx context.Context, reason string) {
	if m != nil && m.contactsRejected != nil {
		m.contactsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m *Metrics) RecordProjectViewed(ctx context.Context) {
	if m != nil && m.projectsViewed != nil {
		m.projectsViewed.Add(ctx, 1)
	}
}

// RecordProjectsListViewed counts a list request; selector is "all" or "featured".
func (m *Metrics) RecordProjectsListViewed(ctx context.Context, selector string) {
	if m != nil && m.projectsListViewed != nil {
		m.projectsListViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("selector", selector)))
	}
}

func (m *Metrics) RecordAdminContactsViewed(ctx context.Context, format string) {
	if m != nil && m.adminContactsViewed != nil {
		m.adminContactsViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	}
}
