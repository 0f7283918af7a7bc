package mq

import (
	"encoding/json"
	"strings"
	"testing"
)

// 编译期保证两种实现都满足EventPublisher
var (
	_ EventPublisher = (*Publisher)(nil)
	_ EventPublisher = NopPublisher{}
)

func TestNopPublisher(t *testing.T) {
	var publisher EventPublisher = NopPublisher{}

	if err := publisher.Publish(RoutingKeyOrderCreated, OrderCreatedEvent{OrderID: 1}); err != nil {
		t.Errorf("NopPublisher.Publish应该返回nil: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Errorf("NopPublisher.Close应该返回nil: %v", err)
	}
}

// TestRoutingKeyHierarchy 路由键前缀是消费者绑定模式(order.*/catalog.*)的契约
func TestRoutingKeyHierarchy(t *testing.T) {
	orderKeys := []string{
		RoutingKeyOrderCreated,
		RoutingKeyOrderReplaced,
		RoutingKeyOrderDeleted,
	}
	for _, key := range orderKeys {
		if !strings.HasPrefix(key, "order.") {
			t.Errorf("订单事件路由键应该以order.开头: %s", key)
		}
	}

	if !strings.HasPrefix(RoutingKeyPricesUpdated, "catalog.") {
		t.Errorf("目录事件路由键应该以catalog.开头: %s", RoutingKeyPricesUpdated)
	}
}

// TestOrderCreatedEventJSON 事件字段名是与消费者约定的线上格式
func TestOrderCreatedEventJSON(t *testing.T) {
	event := OrderCreatedEvent{
		OrderID:      42,
		CustomerName: "门店一号",
		Total:        129.90,
		LineCount:    3,
		CreatedAt:    "2026-03-01 10:00:00",
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("序列化事件失败: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("反序列化事件失败: %v", err)
	}

	for _, key := range []string{"order_id", "customer_name", "total", "line_count", "created_at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("事件JSON缺少字段: %s", key)
		}
	}

	if decoded["order_id"].(float64) != 42 {
		t.Errorf("order_id错误: %v", decoded["order_id"])
	}
	if decoded["customer_name"].(string) != "门店一号" {
		t.Errorf("customer_name错误: %v", decoded["customer_name"])
	}
}

func TestPricesUpdatedEventJSON(t *testing.T) {
	event := PricesUpdatedEvent{
		Mode:    "discount",
		Updated: 17,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("序列化事件失败: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("反序列化事件失败: %v", err)
	}

	if decoded["mode"].(string) != "discount" {
		t.Errorf("mode错误: %v", decoded["mode"])
	}
	if decoded["updated"].(float64) != 17 {
		t.Errorf("updated错误: %v", decoded["updated"])
	}
}
