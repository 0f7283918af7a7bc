package dto

// CreateOrderRequest HTTP下单请求
// customer_name可为空(散客);明细数量规则由领域层校验,
// 同一图书的重复条目会被合并
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"max=100" example:"王小明"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest 订单明细项
type OrderItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" example:"2"`
}

// ReplaceOrderItemsRequest HTTP整单换货请求
// items可为空:清空订单明细,总额归零
type ReplaceOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"dive"`
}

// OrderLineResponse 订单明细行
type OrderLineResponse struct {
	BookID   uint `json:"book_id" example:"1"`
	Quantity int  `json:"quantity" example:"2"`
}

// OrderResponse HTTP订单响应
type OrderResponse struct {
	ID           uint                `json:"id" example:"1"`
	CustomerName string              `json:"customer_name" example:"王小明"`
	OwnerUserID  *uint               `json:"owner_user_id" example:"1"` // 录单员工,可为null
	Total        float64             `json:"total" example:"79.00"`     // 下单时价格计算的存档总额
	Lines        []OrderLineResponse `json:"lines"`
	CreatedAt    string              `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListOrdersResponse HTTP订单列表响应
type ListOrdersResponse struct {
	List  []OrderResponse `json:"list"`
	Total int             `json:"total" example:"2"`
}
