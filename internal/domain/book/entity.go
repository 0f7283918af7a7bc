package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,库存与价格由销售流程和批量调价共同维护
// 2. 价格使用float64,允许为空(未定价的图书参与打折时按0处理)
// 3. ISBN可缺省;非空时由数据库唯一索引保证全局唯一
// 4. 被订单明细引用的图书禁止删除(引用完整性)
type Book struct {
	ID        uint
	Title     string   // 书名
	Author    string   // 作者
	ISBN      *string  // ISBN号,可为空;非空时全局唯一
	Stock     int      // 库存数量
	Price     *float64 // 价格(元),可为空表示未定价
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - 初始库存不能为负数
// - 价格非空时不能为负数
func NewBook(title, author string, isbn *string, stock int, price *float64) (*Book, error) {
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if price != nil && *price < 0 {
		return nil, ErrInvalidPrice
	}
	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Stock:     stock,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PriceOrZero 返回价格,未定价按0元处理
// 下单计算总额、批量按比例调价都依赖这一口径
func (b *Book) PriceOrZero() float64 {
	if b.Price == nil {
		return 0
	}
	return *b.Price
}

// SetStock 直接设置库存(仓储管理行为)
// 注意:此处不做下限校验——负库存是否合法由调用方(事务管理器)决定,
// 目录层只负责原样写入
func (b *Book) SetStock(newStock int) {
	b.Stock = newStock
	b.UpdatedAt = time.Now()
}

// Shortfall 计算按请求数量下单时的库存缺口
// 返回0表示库存充足
func (b *Book) Shortfall(quantity int) int {
	if b.Stock >= quantity {
		return 0
	}
	return quantity - b.Stock
}
