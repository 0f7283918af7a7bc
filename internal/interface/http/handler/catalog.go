package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CatalogHandler 图书目录HTTP处理器
// 设计说明:
// 1. Handler只做参数绑定、用例调用、响应转换,业务规则在领域层
// 2. 读未命中不作为错误,走response.NotFound收口
// 3. 调价成功后发布事件,发布失败只记日志不影响响应
type CatalogHandler struct {
	addBookUseCase        *catalog.AddBookUseCase
	listBooksUseCase      *catalog.ListBooksUseCase
	getBookUseCase        *catalog.GetBookUseCase
	setStockUseCase       *catalog.SetStockUseCase
	deleteBookUseCase     *catalog.DeleteBookUseCase
	updatePricesUseCase   *catalog.UpdatePricesUseCase
	discountPricesUseCase *catalog.DiscountPricesUseCase
	publisher             mq.EventPublisher
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(
	addBookUseCase *catalog.AddBookUseCase,
	listBooksUseCase *catalog.ListBooksUseCase,
	getBookUseCase *catalog.GetBookUseCase,
	setStockUseCase *catalog.SetStockUseCase,
	deleteBookUseCase *catalog.DeleteBookUseCase,
	updatePricesUseCase *catalog.UpdatePricesUseCase,
	discountPricesUseCase *catalog.DiscountPricesUseCase,
	publisher mq.EventPublisher,
) *CatalogHandler {
	return &CatalogHandler{
		addBookUseCase:        addBookUseCase,
		listBooksUseCase:      listBooksUseCase,
		getBookUseCase:        getBookUseCase,
		setStockUseCase:       setStockUseCase,
		deleteBookUseCase:     deleteBookUseCase,
		updatePricesUseCase:   updatePricesUseCase,
		discountPricesUseCase: discountPricesUseCase,
		publisher:             publisher,
	}
}

// parseIDParam 解析路径参数中的资源ID
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: 无效的ID")
		return 0, false
	}
	return uint(id), true
}

// AddBook 图书入库
// @Summary      图书入库
// @Description  新增一本图书到目录,ISBN与价格可缺省
// @Tags         图书目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *CatalogHandler) AddBook(c *gin.Context) {
	var req dto.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.addBookUseCase.Execute(c.Request.Context(), catalog.AddBookRequest{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
		Stock:  req.Stock,
		Price:  req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回目录中全部图书,按入库顺序排列
// @Tags         图书目录
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	result, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BookResponse, len(result.List))
	for i := range result.List {
		list[i] = *toBookResponse(&result.List[i])
	}
	response.Success(c, &dto.ListBooksResponse{
		List:  list,
		Total: result.Total,
	})
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  按ID查询单本图书
// @Tags         图书目录
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, found, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "图书不存在")
		return
	}

	response.Success(c, toBookResponse(result))
}

// SetStock 设置库存
// @Summary      设置库存
// @Description  将图书库存设置为指定值(盘库用),不校验下限
// @Tags         图书目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.SetStockRequest true "新库存"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/stock [put]
func (h *CatalogHandler) SetStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, found, err := h.setStockUseCase.Execute(c.Request.Context(), id, *req.Stock)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "图书不存在")
		return
	}

	response.Success(c, toBookResponse(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  从目录删除图书;被订单引用的图书禁止删除
// @Tags         图书目录
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "图书已被订单引用"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	found, err := h.deleteBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "图书不存在")
		return
	}

	response.Success(c, nil)
}

// UpdatePrices 批量调价
// @Summary      批量调价
// @Description  按筛选条件批量设置新价格或按系数缩放,未定价图书按0元参与缩放
// @Tags         图书目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdatePricesRequest true "筛选条件与调价模式"
// @Success      200 {object} response.Response{data=dto.UpdatePricesResponse}
// @Failure      400 {object} response.Response "未指定调价模式"
// @Router       /api/v1/books/pricing [post]
func (h *CatalogHandler) UpdatePrices(c *gin.Context) {
	var req dto.UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updatePricesUseCase.Execute(c.Request.Context(), catalog.UpdatePricesRequest{
		Author:      req.Author,
		IDs:         req.IDs,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		SetPrice:    req.NewPrice,
		ScaleFactor: req.ScaleFactor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	mode := "scale"
	if req.NewPrice != nil {
		mode = "set"
	}
	h.recordPricing(mode, result.Updated)

	response.Success(c, &dto.UpdatePricesResponse{Updated: result.Updated})
}

// DiscountPrices 批量折扣
// @Summary      批量折扣
// @Description  按百分比下调筛选范围内图书的价格,percent=20表示按原价80%出售
// @Tags         图书目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.DiscountPricesRequest true "筛选条件与折扣百分比"
// @Success      200 {object} response.Response{data=dto.UpdatePricesResponse}
// @Failure      400 {object} response.Response "折扣百分比越界"
// @Router       /api/v1/books/discount [post]
func (h *CatalogHandler) DiscountPrices(c *gin.Context) {
	var req dto.DiscountPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.discountPricesUseCase.Execute(c.Request.Context(), catalog.DiscountPricesRequest{
		Author:   req.Author,
		IDs:      req.IDs,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Percent:  req.Percent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.recordPricing("discount", result.Updated)

	response.Success(c, &dto.UpdatePricesResponse{Updated: result.Updated})
}

// recordPricing 调价成功后的指标与事件上报
func (h *CatalogHandler) recordPricing(mode string, updated int64) {
	metrics.IncCounterVec(metrics.PricingUpdatesTotal, map[string]string{"mode": mode})
	metrics.AddCounter(metrics.PricingRowsUpdatedTotal, float64(updated))

	if err := h.publisher.Publish(mq.RoutingKeyPricesUpdated, mq.PricesUpdatedEvent{
		Mode:    mode,
		Updated: updated,
	}); err != nil {
		log.Printf("[WARN] 发布调价事件失败: %v", err)
	}
}

// toBookResponse 应用层DTO → HTTP响应DTO
func toBookResponse(d *catalog.BookDetail) *dto.BookResponse {
	return &dto.BookResponse{
		ID:        d.ID,
		Title:     d.Title,
		Author:    d.Author,
		ISBN:      d.ISBN,
		Stock:     d.Stock,
		Price:     d.Price,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
