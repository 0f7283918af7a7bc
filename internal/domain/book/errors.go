package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为负数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "初始库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrBookReferenced 图书已被订单引用
	ErrBookReferenced = apperrors.New(apperrors.ErrCodeBookReferenced, "图书已被订单明细引用，无法删除")

	// ErrNoPricingMode 批量调价未指定模式
	ErrNoPricingMode = apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定新价格或调价系数")

	// ErrInvalidDiscount 折扣比例非法
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣比例必须在0到100之间")
)
