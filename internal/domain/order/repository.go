package order

import (
	"context"
	"time"
)

// Repository 订单仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务句柄)
// 3. 读未命中返回ErrOrderNotFound,应用层负责转换为"未找到"信号
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 订单头和明细必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// List 查询全部订单,按创建时间倒序(最新的在前)
	List(ctx context.Context) ([]*Order, error)

	// ListCreatedSince 查询指定时刻之后创建的订单(报表用,不带明细)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*Order, error)

	// UpdateTotal 更新订单头上的总金额
	UpdateTotal(ctx context.Context, id uint, total float64) error

	// DeleteLines 删除订单的全部明细行(换货流程的清空步骤)
	DeleteLines(ctx context.Context, orderID uint) error

	// CreateLines 为订单批量写入明细行
	CreateLines(ctx context.Context, orderID uint, lines []OrderLine) error

	// Delete 删除订单,级联删除其明细行
	// 订单不存在时返回ErrOrderNotFound
	Delete(ctx context.Context, id uint) error

	// CountLinesByBook 统计引用指定图书的明细行数
	// 目录层删除图书前依赖此检查保证引用完整性
	CountLinesByBook(ctx context.Context, bookID uint) (int64, error)
}
