package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	employeesCreated metric.Int64Counter
	employeesUpdated metric.Int64Counter
	employeesDeleted metric.Int64Counter
	employeesViewed  metric.Int64Counter
	listViewed       metric.Int64Counter
	pageViewed       metric.Int64Counter
	uploadsRejected  metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.employeesCreated, err = meter.Int64Counter(
		"employee_service.employees.created",
		metric.WithDescription("Total number of employees created"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesUpdated, err = meter.Int64Counter(
		"employee_service.employees.updated",
		metric.WithDescription("Total number of employees updated"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesDeleted, err = meter.Int64Counter(
		"employee_service.employees.deleted",
		metric.WithDescription("Total number of employees deleted"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesViewed, err = meter.Int64Counter(
		"employee_service.employees.viewed",
		metric.WithDescription("Total number of single employee views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.listViewed, err = meter.Int64Counter(
		"employee_service.employees.list_viewed",
		metric.WithDescription("Total number of times the employee list was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.pageViewed, err = meter.Int64Counter(
		"employee_service.employees.page_viewed",
		metric.WithDescription("Total number of times a projected list page was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.uploadsRejected, err = meter.Int64Counter(
		"employee_service.uploads.rejected",
		metric.WithDescription("Total number of rejected image uploads"),
		metric.WithUnit("{upload}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordEmployeeCreated(ctx context.Context) {
	if m != nil && m.employeesCreated != nil {
		m.employeesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeUpdated(ctx context.Context) {
	if m != nil && m.employeesUpdated != nil {
		m.employeesUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeDeleted(ctx context.Context) {
	if m != nil && m.employeesDeleted != nil {
		m.employeesDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeViewed(ctx context.Context) {
	if m != nil && m.employeesViewed != nil {
		m.employeesViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordListViewed(ctx context.Context) {
	if m != nil && m.listViewed != nil {
		m.listViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordPageViewed(ctx context.Context) {
	if m != nil && m.pageViewed != nil {
		m.pageViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordUploadRejected(ctx context.Context) {
	if m != nil && m.uploadsRejected != nil {
		m.uploadsRejected.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
