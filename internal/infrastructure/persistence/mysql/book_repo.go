package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
// 4. 所有方法通过getDB(ctx)取连接,自动参与上层开启的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
		Stock:  b.Stock,
		Price:  b.Price,
	}

	// 2. 插入数据库
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		// ISBN唯一索引冲突
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// List 查询全部图书,按ID升序
func (r *bookRepository) List(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := r.getDB(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// UpdateStockDelta 按增量调整库存(原子操作)
// UPDATE books SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
// 条件保护写在WHERE里,事务内并发扣减不会把库存减成负数:
// 哪怕两个事务读到同一库存快照,第二个UPDATE也会因条件不满足而零行生效
func (r *bookRepository) UpdateStockDelta(ctx context.Context, id uint, delta int) error {
	db := r.getDB(ctx)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者库存不足,再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}

	return nil
}

// SetStock 直接写入库存值
// 不做下限校验:负库存是否合法由调用方决定
func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", id).
		Update("stock", stock)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "写入库存失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// Delete 删除图书(硬删除)
// 订单明细引用检查由应用层在同一事务中完成
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// UpdatePrices 批量调价
// 设计说明:
// 1. 筛选条件为AND关系;全部为空时作用于整个目录
// 2. set模式直接写入绝对价格;scale模式按COALESCE(price,0)*factor缩放,
//    未定价图书缩放后落库为0而不是NULL
// 3. 先按同一条件COUNT再UPDATE,保证返回"命中行数"而非驱动的"变更行数"
//    (MySQL默认只报告值发生变化的行,系数为1时两者不一致)
func (r *bookRepository) UpdatePrices(ctx context.Context, filter book.PriceFilter, set *float64, scale *float64) (int64, error) {
	db := r.getDB(ctx)

	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.Author != nil {
			q = q.Where("author = ?", *filter.Author)
		}
		if len(filter.IDs) > 0 {
			q = q.Where("id IN ?", filter.IDs)
		}
		if filter.MinPrice != nil {
			q = q.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			q = q.Where("price <= ?", *filter.MaxPrice)
		}
		return q
	}

	var matched int64
	if err := applyFilter(db.Model(&BookModel{})).Count(&matched).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计调价范围失败")
	}
	if matched == 0 {
		return 0, nil
	}

	update := applyFilter(db.Model(&BookModel{}))
	var err error
	if set != nil {
		err = update.Update("price", *set).Error
	} else {
		err = update.Update("price", gorm.Expr("COALESCE(price, 0) * ?", *scale)).Error
	}
	if err != nil {
		return 0, apperrors.Wrap(err, "批量调价失败")
	}

	return matched, nil
}

// Count 图书总数
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&BookModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书失败")
	}
	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		Author:    model.Author,
		ISBN:      model.ISBN,
		Stock:     model.Stock,
		Price:     model.Price,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
