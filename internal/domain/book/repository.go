package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 读未命中返回ErrBookNotFound,由上层决定是当错误抛出还是转为"未找到"信号
type Repository interface {
	// Create 创建图书
	// ISBN与现有记录冲突时返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// List 查询全部图书,按ID升序
	List(ctx context.Context) ([]*Book, error)

	// UpdateStockDelta 按增量调整库存(原子操作)
	// delta为正数表示回补,负数表示扣减
	// 扣减带条件保护:库存不足时不修改任何行并返回ErrInsufficientStock,
	// 并发下单依赖此保护防止超卖
	UpdateStockDelta(ctx context.Context, id uint, delta int) error

	// SetStock 直接写入库存值,不做下限校验
	SetStock(ctx context.Context, id uint, stock int) error

	// Delete 删除图书
	// 引用检查由应用层完成,此处只负责删除行
	Delete(ctx context.Context, id uint) error

	// UpdatePrices 批量调价
	// set非空时写入绝对价格,否则按scale缩放(空价格按0元参与缩放,结果落库为0)
	// 返回实际更新的行数
	UpdatePrices(ctx context.Context, filter PriceFilter, set *float64, scale *float64) (int64, error)

	// Count 图书总数(用于启动时判断是否注入演示数据)
	Count(ctx context.Context) (int64, error)
}

// PriceFilter 批量调价的筛选条件
// 各条件为AND关系;全部为空表示作用于整个目录(有意为之的显式行为)
type PriceFilter struct {
	Author   *string  // 作者精确匹配
	IDs      []uint   // ID集合
	MinPrice *float64 // 价格下限(含)
	MaxPrice *float64 // 价格上限(含)
}

// Empty 是否未设置任何筛选条件
func (f PriceFilter) Empty() bool {
	return f.Author == nil && len(f.IDs) == 0 && f.MinPrice == nil && f.MaxPrice == nil
}
