package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// AddBookUseCase 图书入库用例
// 设计说明:
// 1. 应用层负责用例编排,输入输出使用DTO,与HTTP层解耦
// 2. 业务规则校验(库存、价格非负)由领域工厂方法负责
// 3. ISBN唯一性由数据库UNIQUE索引保证,Repository转换为ErrISBNDuplicate
type AddBookUseCase struct {
	bookRepo book.Repository
}

// NewAddBookUseCase 创建入库用例
func NewAddBookUseCase(bookRepo book.Repository) *AddBookUseCase {
	return &AddBookUseCase{
		bookRepo: bookRepo,
	}
}

// AddBookRequest 入库请求DTO
// ISBN与Price可缺省:ISBN为空的图书不参与唯一性约束,
// Price为空表示未定价(按比例调价时按0元处理)
type AddBookRequest struct {
	Title  string   // 书名
	Author string   // 作者
	ISBN   *string  // ISBN号,可为空
	Stock  int      // 初始库存
	Price  *float64 // 价格(元),可为空
}

// BookDetail 图书DTO(目录用例共用)
type BookDetail struct {
	ID        uint     `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	ISBN      *string  `json:"isbn"`
	Stock     int      `json:"stock"`
	Price     *float64 `json:"price"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Execute 执行图书入库
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*BookDetail, error) {
	// 1. 创建领域实体(工厂方法校验库存、价格)
	b, err := book.NewBook(req.Title, req.Author, req.ISBN, req.Stock, req.Price)
	if err != nil {
		return nil, err
	}

	// 2. 持久化(ISBN冲突由Repository转换为ErrISBNDuplicate)
	if err := uc.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return toBookDetail(b), nil
}

// toBookDetail 领域实体 → 应用层DTO
func toBookDetail(b *book.Book) *BookDetail {
	return &BookDetail{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Stock:     b.Stock,
		Price:     b.Price,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
