package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 后台目录规模有限,返回全量列表,按ID升序保证顺序稳定
type ListBooksUseCase struct {
	bookRepo book.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookRepo: bookRepo,
	}
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List  []BookDetail `json:"list"`
	Total int          `json:"total"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) (*ListBooksResponse, error) {
	books, err := uc.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]BookDetail, len(books))
	for i, b := range books {
		list[i] = *toBookDetail(b)
	}

	return &ListBooksResponse{
		List:  list,
		Total: len(list),
	}, nil
}
