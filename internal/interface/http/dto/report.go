package dto

// DailyTotalItem 单日销售汇总
type DailyTotalItem struct {
	Date  string  `json:"date" example:"2024-01-15"`
	Total float64 `json:"total" example:"158.00"`
}

// SalesReportResponse HTTP销售报表响应
type SalesReportResponse struct {
	Period      string           `json:"period" example:"monthly"`
	From        string           `json:"from" example:"2024-01-01 00:00:00"`
	To          string           `json:"to" example:"2024-01-31 23:59:59"`
	TotalBilled float64          `json:"total_billed" example:"1580.00"`
	OrderCount  int              `json:"order_count" example:"12"`
	DailyTotals []DailyTotalItem `json:"daily_totals"`
}
