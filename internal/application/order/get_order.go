package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// GetOrderUseCase 订单详情查询用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建详情查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo: orderRepo,
	}
}

// Execute 执行详情查询
// 读未命中不是错误:返回(nil, false, nil)
func (uc *GetOrderUseCase) Execute(ctx context.Context, id uint) (*OrderDetail, bool, error) {
	o, err := uc.orderRepo.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return toOrderDetail(o), true, nil
}
