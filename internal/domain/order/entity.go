package order

import (
	"time"
)

// Order 销售订单实体(聚合根)
// DDD设计说明:
// 1. Order是聚合根,OrderLine是聚合内的子实体
// 2. Total冗余存储下单时刻的应收金额: Σ(数量×下单时单价)
//    明细行不单独记价格,历史价格快照只体现在Total上
// 3. 后台销售单没有支付/发货流转,落库即终态,只能整体换行或删除
type Order struct {
	ID           uint
	CustomerName string      // 客户姓名,可为空(匿名散客)
	OwnerUserID  *uint       // 录单员工的用户ID,可为空
	Total        float64     // 订单总金额(元),下单时按当时价格快照累计
	Lines        []OrderLine // 订单明细(聚合内的子实体)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine 订单明细行
// 设计说明:
// 1. 不是独立聚合根,必须通过Order访问
// 2. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
// 3. 同一订单内每本书至多一行,唯一约束(order_id, book_id)由数据库保证
type OrderLine struct {
	ID       uint
	OrderID  uint // 所属订单ID
	BookID   uint // 图书ID
	Quantity int  // 购买数量
}

// Item 下单入参中的一项(book_id, quantity)
type Item struct {
	BookID   uint
	Quantity int
}

// NewOrder 创建新订单(工厂方法)
// 明细与总额由事务管理器在校验库存后填入
func NewOrder(customerName string, ownerUserID *uint) *Order {
	now := time.Now()
	return &Order{
		CustomerName: customerName,
		OwnerUserID:  ownerUserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AggregateItems 聚合重复的图书条目
// 业务规则:
// 1. 同一book_id的多个条目合并为一条,数量相加
// 2. 保留首次出现的先后顺序,保证校验与报错顺序稳定
// 创建与换货两条路径共用同一聚合口径
func AggregateItems(items []Item) []Item {
	merged := make([]Item, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, it := range items {
		if pos, ok := index[it.BookID]; ok {
			merged[pos].Quantity += it.Quantity
			continue
		}
		index[it.BookID] = len(merged)
		merged = append(merged, Item{BookID: it.BookID, Quantity: it.Quantity})
	}
	return merged
}

// ValidateItems 校验下单明细
// 业务规则:明细非空,且每个原始条目的数量大于0(聚合前逐条校验,
// 防止正负数量相抵后"合法"通过)
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return ErrInvalidOrderItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// LineQuantitySum 订单内所有明细行的数量之和
// 与库存扣减总量对账时使用
func (o *Order) LineQuantitySum() int {
	sum := 0
	for _, l := range o.Lines {
		sum += l.Quantity
	}
	return sum
}

// IsOwnedBy 检查订单是否由指定员工录入
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.OwnerUserID != nil && *o.OwnerUserID == userID
}
