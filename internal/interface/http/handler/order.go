package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 销售订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	listOrdersUseCase   *apporder.ListOrdersUseCase
	getOrderUseCase     *apporder.GetOrderUseCase
	replaceItemsUseCase *apporder.ReplaceOrderItemsUseCase
	deleteOrderUseCase  *apporder.DeleteOrderUseCase
	invoiceUseCase      *apporder.InvoiceUseCase
	publisher           mq.EventPublisher
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	replaceItemsUseCase *apporder.ReplaceOrderItemsUseCase,
	deleteOrderUseCase *apporder.DeleteOrderUseCase,
	invoiceUseCase *apporder.InvoiceUseCase,
	publisher mq.EventPublisher,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		listOrdersUseCase:   listOrdersUseCase,
		getOrderUseCase:     getOrderUseCase,
		replaceItemsUseCase: replaceItemsUseCase,
		deleteOrderUseCase:  deleteOrderUseCase,
		invoiceUseCase:      invoiceUseCase,
		publisher:           publisher,
	}
}

// CreateOrder 创建销售订单
// @Summary      创建销售订单
// @Description  录入一笔销售:校验库存、按当前价格计算总额、扣减库存,单事务完成
// @Tags         销售订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "客户与明细"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "明细为空或数量非法"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "库存不足"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 录单员工取自认证中间件注入的Context
	userID := middleware.MustGetUserID(c)

	items := make([]apporder.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.OrderItemInput{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	start := time.Now()
	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		CustomerName: req.CustomerName,
		OwnerUserID:  &userID,
		Items:        items,
	})
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())

	if err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		if apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock) {
			metrics.IncCounter(metrics.InsufficientStockTotal)
		}
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.OrdersCreatedTotal)
	h.publishEvent(mq.RoutingKeyOrderCreated, mq.OrderCreatedEvent{
		OrderID:      result.ID,
		CustomerName: result.CustomerName,
		Total:        result.Total,
		LineCount:    len(result.Lines),
		CreatedAt:    result.CreatedAt,
	})

	response.Success(c, toOrderResponse(result))
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  返回全部订单(含明细),最新的在前
// @Tags         销售订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ListOrdersResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.listOrdersUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.OrderResponse, len(result.List))
	for i := range result.List {
		list[i] = *toOrderResponse(&result.List[i])
	}
	response.Success(c, &dto.ListOrdersResponse{
		List:  list,
		Total: result.Total,
	})
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  按ID查询订单头与明细
// @Tags         销售订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, found, err := h.getOrderUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "订单不存在")
		return
	}

	response.Success(c, toOrderResponse(result))
}

// ReplaceOrderItems 整单换货
// @Summary      整单换货
// @Description  回补原明细占用的库存,按新明细重算总额并重新扣库存;items为空表示清空订单
// @Tags         销售订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.ReplaceOrderItemsRequest true "新明细"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "换货成功"
// @Failure      400 {object} response.Response "数量非法"
// @Failure      404 {object} response.Response "订单或图书不存在"
// @Failure      409 {object} response.Response "库存不足"
// @Router       /api/v1/orders/{id}/items [put]
func (h *OrderHandler) ReplaceOrderItems(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ReplaceOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	items := make([]apporder.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.OrderItemInput{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	result, found, err := h.replaceItemsUseCase.Execute(c.Request.Context(), id, items)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock) {
			metrics.IncCounter(metrics.InsufficientStockTotal)
		}
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "订单不存在")
		return
	}

	metrics.IncCounter(metrics.OrdersReplacedTotal)
	h.publishEvent(mq.RoutingKeyOrderReplaced, mq.OrderReplacedEvent{
		OrderID:   result.ID,
		Total:     result.Total,
		LineCount: len(result.Lines),
	})

	response.Success(c, toOrderResponse(result))
}

// DeleteOrder 删除订单
// @Summary      删除订单
// @Description  删除订单头与明细;属于破坏性清理,不回补库存
// @Tags         销售订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	found, err := h.deleteOrderUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "订单不存在")
		return
	}

	metrics.IncCounter(metrics.OrdersDeletedTotal)
	h.publishEvent(mq.RoutingKeyOrderDeleted, mq.OrderDeletedEvent{OrderID: id})

	response.Success(c, nil)
}

// Invoice 订单发票
// @Summary      订单发票
// @Description  按当前定价渲染纯文本发票;与存档总额偏差超过0.01元时标注提示
// @Tags         销售订单
// @Produce      plain
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {string} string "发票文本"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	text, found, err := h.invoiceUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "订单不存在")
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// publishEvent 发布订单事件,失败只记日志
func (h *OrderHandler) publishEvent(routingKey string, event interface{}) {
	if err := h.publisher.Publish(routingKey, event); err != nil {
		log.Printf("[WARN] 发布订单事件失败: routing_key=%s err=%v", routingKey, err)
	}
}

// toOrderResponse 应用层DTO → HTTP响应DTO
func toOrderResponse(d *apporder.OrderDetail) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = dto.OrderLineResponse{
			BookID:   l.BookID,
			Quantity: l.Quantity,
		}
	}

	return &dto.OrderResponse{
		ID:           d.ID,
		CustomerName: d.CustomerName,
		OwnerUserID:  d.OwnerUserID,
		Total:        d.Total,
		Lines:        lines,
		CreatedAt:    d.CreatedAt,
	}
}
