package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/report"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// ReportHandler 销售报表HTTP处理器
type ReportHandler struct {
	salesReportUseCase *report.SalesReportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(salesReportUseCase *report.SalesReportUseCase) *ReportHandler {
	return &ReportHandler{
		salesReportUseCase: salesReportUseCase,
	}
}

// SalesReport 销售汇总报表
// @Summary      销售汇总报表
// @Description  统计指定周期内的订单总额与按日汇总,周期为monthly(30天)/quarterly(90天)/annual(365天)
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        period query string false "统计周期" Enums(monthly, quarterly, annual) default(monthly)
// @Success      200 {object} response.Response{data=dto.SalesReportResponse}
// @Failure      400 {object} response.Response "非法的统计周期"
// @Router       /api/v1/reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	period := c.DefaultQuery("period", report.PeriodMonthly)

	result, err := h.salesReportUseCase.Execute(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	daily := make([]dto.DailyTotalItem, len(result.DailyTotals))
	for i, d := range result.DailyTotals {
		daily[i] = dto.DailyTotalItem{
			Date:  d.Date,
			Total: d.Total,
		}
	}

	response.Success(c, &dto.SalesReportResponse{
		Period:      result.Period,
		From:        result.From,
		To:          result.To,
		TotalBilled: result.TotalBilled,
		OrderCount:  result.OrderCount,
		DailyTotals: daily,
	})
}
