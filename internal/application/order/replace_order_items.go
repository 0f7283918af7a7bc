package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// ReplaceOrderItemsUseCase 整单换货用例
// 设计说明:
// 1. 与删除不同,换货是对账式更新:旧明细的数量先回补库存,再按新明细重新扣减
// 2. 回补、清空、重扣在同一事务内完成;新明细任何一项校验失败,
//    整个操作(包括已回补的库存)全部回滚,订单保持调用前的状态
// 3. 订单不存在返回(nil, false, nil),不产生任何写入
type ReplaceOrderItemsUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewReplaceOrderItemsUseCase 创建换货用例
func NewReplaceOrderItemsUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager *mysql.TxManager,
) *ReplaceOrderItemsUseCase {
	return &ReplaceOrderItemsUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// Execute 执行整单换货
// 业务流程(单事务):
// 1. 回补阶段:旧明细逐行把数量加回对应图书的库存,然后删除全部旧明细
// 2. 聚合阶段:新明细按book_id合并数量
// 3. 重扣阶段:逐项校验图书存在→数量>0→回补后库存充足,
//    扣减库存并写入新明细,按当前价格累计新总额
// 4. 新总额写回订单头
// 新明细传空列表是合法的:订单被清空,总额归零
func (uc *ReplaceOrderItemsUseCase) Execute(ctx context.Context, orderID uint, items []OrderItemInput) (*OrderDetail, bool, error) {
	var (
		found   bool
		updated *order.Order
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 订单存在性检查(事务内,防止检查后被并发删除)
		existing, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			if apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound) {
				return nil // 未找到:提交空事务,不产生写入
			}
			return err
		}
		found = true

		// 1. 回补阶段:旧明细数量加回库存,清空旧明细
		for _, line := range existing.Lines {
			if err := uc.bookRepo.UpdateStockDelta(txCtx, line.BookID, line.Quantity); err != nil {
				return err
			}
		}
		if err := uc.orderRepo.DeleteLines(txCtx, orderID); err != nil {
			return err
		}

		// 2. 聚合阶段
		aggregated := order.AggregateItems(toDomainItems(items))

		// 3. 重扣阶段
		var total float64
		lines := make([]order.OrderLine, 0, len(aggregated))
		for _, item := range aggregated {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err // 图书不存在 → ErrBookNotFound,整个事务回滚
			}

			if item.Quantity <= 0 {
				return order.ErrInvalidQuantity
			}

			// 事务内读到的是回补后的库存
			if shortfall := b.Shortfall(item.Quantity); shortfall > 0 {
				return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
					"图书《%s》库存不足,还差%d本", b.Title, shortfall)
			}

			if err := uc.bookRepo.UpdateStockDelta(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}

			total += b.PriceOrZero() * float64(item.Quantity)
			lines = append(lines, order.OrderLine{
				BookID:   item.BookID,
				Quantity: item.Quantity,
			})
		}

		if err := uc.orderRepo.CreateLines(txCtx, orderID, lines); err != nil {
			return err
		}

		// 4. 新总额写回订单头
		if err := uc.orderRepo.UpdateTotal(txCtx, orderID, total); err != nil {
			return err
		}

		// 回读换货后的订单快照
		updated, err = uc.orderRepo.FindByID(txCtx, orderID)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if !found {
		return nil, false, nil
	}

	return toOrderDetail(updated), true, nil
}
