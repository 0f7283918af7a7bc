package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// DiscountPricesUseCase 批量折扣用例
// 在批量调价之上提供百分比口径:打八折传percent=20,换算为系数0.8
// 折扣比例限定[0,100],避免负折扣变相涨价
type DiscountPricesUseCase struct {
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewDiscountPricesUseCase 创建批量折扣用例
func NewDiscountPricesUseCase(bookRepo book.Repository, txManager *mysql.TxManager) *DiscountPricesUseCase {
	return &DiscountPricesUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// DiscountPricesRequest 批量折扣请求DTO
// 筛选条件与批量调价一致;Percent为折扣百分比
type DiscountPricesRequest struct {
	Author   *string
	IDs      []uint
	MinPrice *float64
	MaxPrice *float64
	Percent  float64 // 折扣百分比,[0,100]
}

// Execute 执行批量折扣
func (uc *DiscountPricesUseCase) Execute(ctx context.Context, req DiscountPricesRequest) (*UpdatePricesResponse, error) {
	// 1. 百分比换算为缩放系数(内含范围校验)
	factor, err := book.DiscountFactor(req.Percent)
	if err != nil {
		return nil, err
	}

	filter := book.PriceFilter{
		Author:   req.Author,
		IDs:      req.IDs,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}

	// 2. 复用批量调价的scale模式,单事务更新
	var updated int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		n, err := uc.bookRepo.UpdatePrices(txCtx, filter, nil, &factor)
		if err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdatePricesResponse{Updated: updated}, nil
}
