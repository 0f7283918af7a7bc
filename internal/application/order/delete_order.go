package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// DeleteOrderUseCase 订单删除用例
// 设计说明:
// 删除不回补库存——这与换货刻意区分:
// - 换货是对账式更新,旧明细数量回到货架
// - 删除是管理员的破坏性清理动作,货已经出去了,只抹掉记录
// 需要"撤销销售并退货上架"时应先换货为空单,再删除
type DeleteOrderUseCase struct {
	orderRepo order.Repository
	txManager *mysql.TxManager
}

// NewDeleteOrderUseCase 创建删除用例
func NewDeleteOrderUseCase(orderRepo order.Repository, txManager *mysql.TxManager) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
	}
}

// Execute 执行订单删除
// 明细行级联删除;返回(false, nil)表示订单不存在
func (uc *DeleteOrderUseCase) Execute(ctx context.Context, id uint) (bool, error) {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.orderRepo.Delete(txCtx, id)
	})

	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
