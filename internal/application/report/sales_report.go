package report

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// 报表周期
const (
	PeriodMonthly   = "monthly"   // 近30天
	PeriodQuarterly = "quarterly" // 近90天
	PeriodAnnual    = "annual"    // 近365天
)

// SalesReportUseCase 销售汇总报表用例
// 设计说明:
// 1. 按周期统计:总开票金额、订单数、按日汇总明细
// 2. 只读订单头(创建时间与总额),不加载明细行
// 3. 周期按自然日回溯:monthly=30天,quarterly=90天,annual=365天
type SalesReportUseCase struct {
	orderRepo order.Repository
}

// NewSalesReportUseCase 创建报表用例
func NewSalesReportUseCase(orderRepo order.Repository) *SalesReportUseCase {
	return &SalesReportUseCase{
		orderRepo: orderRepo,
	}
}

// DailyTotal 单日销售汇总
type DailyTotal struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// SalesReportResponse 报表响应DTO
type SalesReportResponse struct {
	Period      string       `json:"period"`
	From        string       `json:"from"` // 统计区间起点(含)
	To          string       `json:"to"`   // 统计区间终点
	TotalBilled float64      `json:"total_billed"`
	OrderCount  int          `json:"order_count"`
	DailyTotals []DailyTotal `json:"daily_totals"` // 按日期升序
}

// Execute 生成销售汇总报表
// 周期非法时返回ErrInvalidPeriod
func (uc *SalesReportUseCase) Execute(ctx context.Context, period string) (*SalesReportResponse, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := now.AddDate(0, 0, -days)

	orders, err := uc.orderRepo.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	// 按日聚合
	var totalBilled float64
	daily := make(map[string]float64)
	for _, o := range orders {
		totalBilled += o.Total
		day := o.CreatedAt.Format("2006-01-02")
		daily[day] += o.Total
	}

	dates := make([]string, 0, len(daily))
	for day := range daily {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	dailyTotals := make([]DailyTotal, len(dates))
	for i, day := range dates {
		dailyTotals[i] = DailyTotal{Date: day, Total: daily[day]}
	}

	return &SalesReportResponse{
		Period:      period,
		From:        since.Format("2006-01-02"),
		To:          now.Format("2006-01-02"),
		TotalBilled: totalBilled,
		OrderCount:  len(orders),
		DailyTotals: dailyTotals,
	}, nil
}

// periodDays 周期 → 回溯天数
func periodDays(period string) (int, error) {
	switch period {
	case PeriodMonthly:
		return 30, nil
	case PeriodQuarterly:
		return 90, nil
	case PeriodAnnual:
		return 365, nil
	default:
		return 0, order.ErrInvalidPeriod
	}
}
