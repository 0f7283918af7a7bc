package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ListOrdersUseCase 订单列表查询用例
// 按创建时间倒序返回,最新的订单在前
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建列表查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		orderRepo: orderRepo,
	}
}

// ListOrdersResponse 列表查询响应DTO
type ListOrdersResponse struct {
	List  []OrderDetail `json:"list"`
	Total int           `json:"total"`
}

// Execute 执行列表查询
func (uc *ListOrdersUseCase) Execute(ctx context.Context) (*ListOrdersResponse, error) {
	orders, err := uc.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]OrderDetail, len(orders))
	for i, o := range orders {
		list[i] = *toOrderDetail(o)
	}

	return &ListOrdersResponse{
		List:  list,
		Total: len(list),
	}, nil
}
