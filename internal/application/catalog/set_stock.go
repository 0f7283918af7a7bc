package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// SetStockUseCase 库存盘点用例
// 设计说明:
// 1. 直接写入库存值,不做下限校验——盘点允许修正为任意值,
//    负库存防护属于销售流程(事务管理器),不属于目录维护
// 2. 写入与回读放在同一事务,返回的图书快照与落库值一致
type SetStockUseCase struct {
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewSetStockUseCase 创建库存盘点用例
func NewSetStockUseCase(bookRepo book.Repository, txManager *mysql.TxManager) *SetStockUseCase {
	return &SetStockUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// Execute 执行库存盘点
// 图书不存在时返回(nil, false, nil)
func (uc *SetStockUseCase) Execute(ctx context.Context, id uint, newStock int) (*BookDetail, bool, error) {
	var updated *book.Book

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookRepo.SetStock(txCtx, id, newStock); err != nil {
			return err
		}

		b, err := uc.bookRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})

	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeBookNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return toBookDetail(updated), true, nil
}
