package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 设计说明:
// 1. Order和OrderLine是聚合关系,创建时在同一事务中一起落库
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// GORM通过foreignKey关联自动保存Lines并回填各级自增ID
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Lines {
		o.Lines[i].ID = model.Lines[i].ID
		o.Lines[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查找订单(包含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel

	err := r.getDB(ctx).Preload("Lines").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// List 查询全部订单,最新的在前
// created_at倒序,同一时刻落库的按ID倒序保证顺序稳定
func (r *orderRepository) List(ctx context.Context) ([]*order.Order, error) {
	var models []OrderModel

	err := r.getDB(ctx).Preload("Lines").
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

// ListCreatedSince 查询指定时刻之后创建的订单
// 报表只需要订单头(创建时间与总额),不预加载明细
func (r *orderRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*order.Order, error) {
	var models []OrderModel

	err := r.getDB(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

// UpdateTotal 更新订单头上的总金额
func (r *orderRepository) UpdateTotal(ctx context.Context, id uint, total float64) error {
	result := r.getDB(ctx).Model(&OrderModel{}).
		Where("id = ?", id).
		Update("total", total)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单总额失败")
	}

	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// DeleteLines 删除订单的全部明细行
func (r *orderRepository) DeleteLines(ctx context.Context, orderID uint) error {
	err := r.getDB(ctx).
		Where("order_id = ?", orderID).
		Delete(&OrderLineModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除订单明细失败")
	}
	return nil
}

// CreateLines 为订单批量写入明细行
func (r *orderRepository) CreateLines(ctx context.Context, orderID uint, lines []order.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	models := make([]OrderLineModel, len(lines))
	for i, l := range lines {
		models[i] = OrderLineModel{
			OrderID:  orderID,
			BookID:   l.BookID,
			Quantity: l.Quantity,
		}
	}

	if err := r.getDB(ctx).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入订单明细失败")
	}
	return nil
}

// Delete 删除订单,级联删除其明细行
// 先删明细再删订单头;订单不存在时返回ErrOrderNotFound
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	if err := db.Where("order_id = ?", id).Delete(&OrderLineModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除订单明细失败")
	}

	result := db.Delete(&OrderModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除订单失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// CountLinesByBook 统计引用指定图书的明细行数
func (r *orderRepository) CountLinesByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&OrderLineModel{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计订单明细失败")
	}
	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	lines := make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineModel{
			ID:       l.ID,
			OrderID:  l.OrderID,
			BookID:   l.BookID,
			Quantity: l.Quantity,
		}
	}

	return &OrderModel{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		OwnerUserID:  o.OwnerUserID,
		Total:        o.Total,
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	lines := make([]order.OrderLine, len(model.Lines))
	for i, l := range model.Lines {
		lines[i] = order.OrderLine{
			ID:       l.ID,
			OrderID:  l.OrderID,
			BookID:   l.BookID,
			Quantity: l.Quantity,
		}
	}

	return &order.Order{
		ID:           model.ID,
		CustomerName: model.CustomerName,
		OwnerUserID:  model.OwnerUserID,
		Total:        model.Total,
		Lines:        lines,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
