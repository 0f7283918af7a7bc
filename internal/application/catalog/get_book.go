package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookRepo book.Repository
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookRepo book.Repository) *GetBookUseCase {
	return &GetBookUseCase{
		bookRepo: bookRepo,
	}
}

// Execute 执行详情查询
// 读未命中不是错误:返回(nil, false, nil),由调用方决定如何呈现
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, bool, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeBookNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return toBookDetail(b), true, nil
}
