package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CreateOrderUseCase 创建销售订单用例
// 这是整个系统最核心的用例:事务处理、库存扣减、总额计算
type CreateOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager *mysql.TxManager,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	CustomerName string          // 客户姓名,可为空
	OwnerUserID  *uint           // 录单员工ID(HTTP层从JWT提取),可为空
	Items        []OrderItemInput // 订单明细
}

// OrderItemInput 订单明细入参(book_id, quantity)
type OrderItemInput struct {
	BookID   uint
	Quantity int
}

// OrderLineDetail 订单明细行DTO
type OrderLineDetail struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

// OrderDetail 订单DTO(订单用例共用)
type OrderDetail struct {
	ID           uint              `json:"id"`
	CustomerName string            `json:"customer_name"`
	OwnerUserID  *uint             `json:"owner_user_id"`
	Total        float64           `json:"total"`
	Lines        []OrderLineDetail `json:"lines"`
	CreatedAt    string            `json:"created_at"`
}

// Execute 执行下单
// 业务流程(单事务,要么全部生效要么全部回滚):
// 1. 校验明细:非空,每个原始条目数量>0(聚合前逐条校验)
// 2. 聚合重复图书条目:同一book_id合并数量,保留首次出现顺序
// 3. 逐项校验图书存在、库存充足(事务内读取,不用缓存快照),
//    按当前价格累计总额(未定价按0元)
// 4. 持久化订单头+明细
// 5. 逐项扣减库存:条件保护的原子UPDATE在扣减时刻再次校验库存,
//    两个并发订单合计超出库存时只有先提交者成功
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*OrderDetail, error) {
	// 1. 明细校验(聚合前)
	if err := order.ValidateItems(toDomainItems(req.Items)); err != nil {
		return nil, err
	}

	// 2. 聚合重复条目(与换货路径共用同一口径)
	items := order.AggregateItems(toDomainItems(req.Items))

	var created *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 3. 校验图书与库存,计算总额
		var total float64
		lines := make([]order.OrderLine, 0, len(items))
		for _, item := range items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err // 图书不存在 → ErrBookNotFound
			}

			if shortfall := b.Shortfall(item.Quantity); shortfall > 0 {
				return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
					"图书《%s》库存不足,还差%d本", b.Title, shortfall)
			}

			total += b.PriceOrZero() * float64(item.Quantity)
			lines = append(lines, order.OrderLine{
				BookID:   item.BookID,
				Quantity: item.Quantity,
			})
		}

		// 4. 持久化订单头+明细
		newOrder := order.NewOrder(req.CustomerName, req.OwnerUserID)
		newOrder.Lines = lines
		newOrder.Total = total
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// 5. 扣减库存
		// 任何一项扣减失败都回滚整个事务:订单不落库,已扣的库存恢复
		for _, item := range items {
			if err := uc.bookRepo.UpdateStockDelta(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}

		created = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderDetail(created), nil
}

// toDomainItems 应用层入参 → 领域Item
func toDomainItems(items []OrderItemInput) []order.Item {
	result := make([]order.Item, len(items))
	for i, it := range items {
		result[i] = order.Item{BookID: it.BookID, Quantity: it.Quantity}
	}
	return result
}

// toOrderDetail 领域实体 → 应用层DTO
func toOrderDetail(o *order.Order) *OrderDetail {
	lines := make([]OrderLineDetail, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineDetail{
			BookID:   l.BookID,
			Quantity: l.Quantity,
		}
	}

	return &OrderDetail{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		OwnerUserID:  o.OwnerUserID,
		Total:        o.Total,
		Lines:        lines,
		CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
