// Package stats computes the admin statistics screen and tracks the pending
// order backlog.
package stats

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

type RepStat struct {
	RepID   string          `json:"rep_id"`
	Name    string          `json:"name"`
	Active  bool            `json:"is_active"`
	Orders  int             `json:"orders"`
	Pending int             `json:"pending"`
	Printed int             `json:"printed"`
	Sales   decimal.Decimal `json:"sales"`
}

type Report struct {
	Reps       []RepStat       `json:"reps"`
	Orders     int             `json:"orders"`
	Pending    int             `json:"pending"`
	Printed    int             `json:"printed"`
	Sales      decimal.Decimal `json:"sales"`
	ActiveReps int             `json:"active_reps"`
}

// counted reports whether an order belongs in the statistics: submitted and not
// in the trash.
func counted(o domain.Order) bool {
	return o.Status != domain.OrderStatusDraft && o.Status != domain.OrderStatusDeleted
}

// RepStats builds the per-rep report, busiest rep first.
func RepStats(ctx context.Context, repos store.Repos) (Report, error) {
	reps, err := repos.Users().ListByRole(ctx, domain.RoleSalesRep)
	if err != nil {
		return Report{}, err
	}
	all, err := repos.Orders().List(ctx)
	if err != nil {
		return Report{}, err
	}

	byRep := make(map[string]*RepStat, len(reps))
	report := Report{Reps: make([]RepStat, 0, len(reps)), Sales: decimal.Zero}
	for _, r := range reps {
		byRep[r.ID] = &RepStat{RepID: r.ID, Name: r.DisplayName(), Active: r.IsActive, Sales: decimal.Zero}
		if r.IsActive {
			report.ActiveReps++
		}
	}

	for _, o := range all {
		if !counted(o) {
			continue
		}
		report.Orders++
		report.Sales = report.Sales.Add(o.Total)
		if o.Status == domain.OrderStatusPending {
			report.Pending++
		}
		if o.Status == domain.OrderStatusPrinted {
			report.Printed++
		}

		s, ok := byRep[o.SalesRepID]
		if !ok {
			continue
		}
		s.Orders++
		s.Sales = s.Sales.Add(o.Total)
		switch o.Status {
		case domain.OrderStatusPending:
			s.Pending++
		case domain.OrderStatusPrinted:
			s.Printed++
		}
	}

	for _, r := range reps {
		report.Reps = append(report.Reps, *byRep[r.ID])
	}
	slices.SortStableFunc(report.Reps, func(a, b RepStat) int { return cmp.Compare(b.Orders, a.Orders) })

	return report, nil
}
