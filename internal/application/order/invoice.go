package order

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// InvoiceUseCase 发票文本生成用例
// 设计说明:
// 1. 输出纯文本发票:表头、明细行、合计
// 2. 明细行按图书的当前价格计价;订单头存档的是下单时刻的价格快照,
//    两者差超过一分钱时,额外输出存档总额与提示行
// 3. 只读操作,不开事务
type InvoiceUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewInvoiceUseCase 创建发票用例
func NewInvoiceUseCase(orderRepo order.Repository, bookRepo book.Repository) *InvoiceUseCase {
	return &InvoiceUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
	}
}

// Execute 生成发票文本
// 订单不存在时返回("", false, nil)
func (uc *InvoiceUseCase) Execute(ctx context.Context, orderID uint) (string, bool, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	var lines []string

	// 表头
	customer := o.CustomerName
	if customer == "" {
		customer = "散客"
	}
	lines = append(lines, fmt.Sprintf("发票 #%d — %s", o.ID, o.CreatedAt.Format("2006-01-02 15:04")))
	lines = append(lines, fmt.Sprintf("客户: %s", customer))
	lines = append(lines, strings.Repeat("-", 60))
	lines = append(lines, fmt.Sprintf("%-40s %5s %10s %12s", "书名", "数量", "单价", "小计"))
	lines = append(lines, strings.Repeat("-", 60))

	// 明细行
	// 被订单引用的图书禁止删除,FindByID失败说明数据已损坏,直接报错
	var totalCalc float64
	for _, l := range o.Lines {
		b, err := uc.bookRepo.FindByID(ctx, l.BookID)
		if err != nil {
			return "", false, err
		}

		unit := b.PriceOrZero()
		lineTotal := unit * float64(l.Quantity)
		totalCalc += lineTotal

		lines = append(lines, fmt.Sprintf("%-40s %5d %10s %12s",
			truncateTitle(b.Title, 40), l.Quantity,
			formatCurrency(unit), formatCurrency(lineTotal)))
	}

	lines = append(lines, strings.Repeat("-", 60))
	lines = append(lines, fmt.Sprintf("%46s %12s", "合计:", formatCurrency(totalCalc)))

	// 存档总额按下单时价格快照计算;当前定价变动后两者会出现差额
	if math.Abs(o.Total-totalCalc) > 0.01 {
		lines = append(lines, fmt.Sprintf("%46s %12s", "订单存档总额:", formatCurrency(o.Total)))
		lines = append(lines, "(存档总额按下单时价格计算,当前定价已变动)")
	}

	return strings.Join(lines, "\n"), true, nil
}

// formatCurrency 金额格式化,保留两位小数
func formatCurrency(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

// truncateTitle 书名截断到指定字符数(按rune计,避免截断多字节字符)
func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
