package api

import "context"

// Report periods
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// EarningsTotals sums earnings over a set of properties
type EarningsTotals struct {
	TotalBookings   Count  `json:"totalBookings"`
	TotalEarnings   Amount `json:"totalEarnings"`
	TotalCommission Amount `json:"totalCommission"`
	TotalRevenue    Amount `json:"totalRevenue"`
}

// PropertyEarnings is the earnings of one property over a period
type PropertyEarnings struct {
	PropertyID       string `json:"propertyId"`
	PropertyName     string `json:"propertyName"`
	PropertyLocation string `json:"propertyLocation"`
	PropertyCity     string `json:"propertyCity"`
	EarningsTotals
}

// EarningsReport is the property earnings report for a period
type EarningsReport struct {
	Period     string             `json:"period"`
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Properties []PropertyEarnings `json:"properties"`
	Totals     EarningsTotals     `json:"totals"`
}

type reportQuery struct {
	Period string `url:"period" validate:"oneof=daily weekly monthly yearly"`
}

// PropertyEarningsReport returns earnings per property for period. An empty period means monthly.
func (c *Client) PropertyEarningsReport(ctx context.Context, period string) (*Envelope[EarningsReport], error) {
	if period == "" {
		period = PeriodMonthly
	}
	q := reportQuery{Period: period}
	if err := checkPayload(q); err != nil {
		return nil, err
	}
	return call[EarningsReport](ctx, c, "/admin/reports/property-earnings", RequestOptions{Query: q})
}
