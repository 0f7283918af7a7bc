package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// DeleteBookUseCase 图书删除用例
// 设计说明:
// 1. 引用完整性:被任何订单明细引用的图书拒绝删除(返回错误,不级联)
// 2. 引用检查与删除在同一事务中执行,避免检查与删除之间插入新订单
type DeleteBookUseCase struct {
	bookRepo  book.Repository
	orderRepo order.Repository
	txManager *mysql.TxManager
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	orderRepo order.Repository,
	txManager *mysql.TxManager,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		txManager: txManager,
	}
}

// Execute 执行图书删除
// 返回值:
// - (true, nil) 删除成功
// - (false, nil) 图书不存在
// - (false, ErrBookReferenced) 图书被订单引用,行保持不变
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (bool, error) {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		count, err := uc.orderRepo.CountLinesByBook(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return book.ErrBookReferenced
		}

		return uc.bookRepo.Delete(txCtx, id)
	})

	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeBookNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
