package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法:fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 2. 通过context传递事务DB(避免全局变量),Repository的getDB方法从context提取
// 3. 每个业务操作(下单、换货、批量调价)对应一个事务,要么全部生效要么全部回滚
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 校验库存并扣减
//	    if err := bookRepo.UpdateStockDelta(ctx, bookID, -quantity); err != nil {
//	        return err // 自动回滚
//	    }
//	    // 2. 创建订单
//	    return orderRepo.Create(ctx, order) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}
