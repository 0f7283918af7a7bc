package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// UpdatePricesUseCase 批量调价用例
// 设计说明:
// 1. 两种调价模式:set(写入绝对价格)和scale(按系数缩放)
//    两者都传时set优先;都不传返回ErrNoPricingMode
// 2. 筛选条件(作者、ID集合、价格区间)为AND关系
//    不传任何条件时作用于整个目录——这是有意的显式行为,调用方自行确认
// 3. 所有匹配行在同一事务中更新,返回精确的更新行数
type UpdatePricesUseCase struct {
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewUpdatePricesUseCase 创建批量调价用例
func NewUpdatePricesUseCase(bookRepo book.Repository, txManager *mysql.TxManager) *UpdatePricesUseCase {
	return &UpdatePricesUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// UpdatePricesRequest 批量调价请求DTO
type UpdatePricesRequest struct {
	Author      *string  // 作者精确匹配
	IDs         []uint   // ID集合
	MinPrice    *float64 // 价格下限(含)
	MaxPrice    *float64 // 价格上限(含)
	SetPrice    *float64 // 新的绝对价格(与ScaleFactor二选一,同传时优先)
	ScaleFactor *float64 // 调价系数(空价格按0元参与缩放)
}

// UpdatePricesResponse 批量调价响应DTO
type UpdatePricesResponse struct {
	Updated int64 `json:"updated"` // 更新的行数
}

// Execute 执行批量调价
func (uc *UpdatePricesUseCase) Execute(ctx context.Context, req UpdatePricesRequest) (*UpdatePricesResponse, error) {
	// 1. 模式校验:必须指定新价格或调价系数
	if req.SetPrice == nil && req.ScaleFactor == nil {
		return nil, book.ErrNoPricingMode
	}

	// set模式下新价格不能为负
	if req.SetPrice != nil && *req.SetPrice < 0 {
		return nil, book.ErrInvalidPrice
	}

	filter := book.PriceFilter{
		Author:   req.Author,
		IDs:      req.IDs,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}

	// 2. set优先于scale
	set := req.SetPrice
	var scale *float64
	if set == nil {
		scale = req.ScaleFactor
	}

	// 3. 单事务批量更新
	var updated int64
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		n, err := uc.bookRepo.UpdatePrices(txCtx, filter, set, scale)
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
