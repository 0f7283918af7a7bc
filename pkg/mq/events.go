package mq

// 领域事件的routing key
// topic Exchange下可按 order.* / catalog.* 订阅
const (
	RoutingKeyOrderCreated  = "order.created"
	RoutingKeyOrderReplaced = "order.replaced"
	RoutingKeyOrderDeleted  = "order.deleted"
	RoutingKeyPricesUpdated = "catalog.prices_updated"
)

// OrderCreatedEvent 订单创建成功后发布
type OrderCreatedEvent struct {
	OrderID      uint    `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
	LineCount    int     `json:"line_count"`
	CreatedAt    string  `json:"created_at"`
}

// OrderReplacedEvent 整单换货成功后发布
type OrderReplacedEvent struct {
	OrderID   uint    `json:"order_id"`
	Total     float64 `json:"total"`
	LineCount int     `json:"line_count"`
}

// OrderDeletedEvent 订单删除后发布
type OrderDeletedEvent struct {
	OrderID uint `json:"order_id"`
}

// PricesUpdatedEvent 批量调价完成后发布
type PricesUpdatedEvent struct {
	Mode    string `json:"mode"`    // set/scale/discount
	Updated int64  `json:"updated"` // 实际更新的行数
}
