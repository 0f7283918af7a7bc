package dto

// AddBookRequest HTTP入库请求
// validator tag说明:
// - required: 必填字段
// - omitempty: 缺省时跳过后续校验
// ISBN与价格可缺省:ISBN为空不参与唯一性约束,价格为空表示未定价
type AddBookRequest struct {
	Title  string   `json:"title" binding:"required,max=200" example:"百年孤独"`
	Author string   `json:"author" binding:"required,max=100" example:"加西亚·马尔克斯"`
	ISBN   *string  `json:"isbn" binding:"omitempty,max=20" example:"9787544253994"`
	Stock  int      `json:"stock" binding:"min=0" example:"10"`
	Price  *float64 `json:"price" binding:"omitempty,min=0" example:"39.50"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID        uint     `json:"id" example:"1"`
	Title     string   `json:"title" example:"百年孤独"`
	Author    string   `json:"author" example:"加西亚·马尔克斯"`
	ISBN      *string  `json:"isbn" example:"9787544253994"`
	Stock     int      `json:"stock" example:"10"`
	Price     *float64 `json:"price" example:"39.50"` // 价格(元),null表示未定价
	CreatedAt string   `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt string   `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ListBooksResponse HTTP图书列表响应
type ListBooksResponse struct {
	List  []BookResponse `json:"list"`
	Total int            `json:"total" example:"3"`
}

// SetStockRequest HTTP库存设置请求
// 指针类型区分"未传"与"0":盘库清零是合法操作
type SetStockRequest struct {
	Stock *int `json:"stock" binding:"required" example:"25"`
}

// UpdatePricesRequest HTTP批量调价请求
// 筛选条件(author/ids/min_price/max_price)全部可选,同传时取交集;
// new_price与scale_factor至少传一个,同传时new_price优先
type UpdatePricesRequest struct {
	Author      *string  `json:"author" binding:"omitempty,max=100" example:"加西亚·马尔克斯"`
	IDs         []uint   `json:"ids" binding:"omitempty"`
	MinPrice    *float64 `json:"min_price" binding:"omitempty,min=0" example:"10.00"`
	MaxPrice    *float64 `json:"max_price" binding:"omitempty,min=0" example:"100.00"`
	NewPrice    *float64 `json:"new_price" binding:"omitempty,min=0" example:"29.90"`
	ScaleFactor *float64 `json:"scale_factor" binding:"omitempty,min=0" example:"1.10"`
}

// DiscountPricesRequest HTTP批量折扣请求
// percent为折扣百分比,20表示原价的80%
type DiscountPricesRequest struct {
	Author   *string  `json:"author" binding:"omitempty,max=100"`
	IDs      []uint   `json:"ids" binding:"omitempty"`
	MinPrice *float64 `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice *float64 `json:"max_price" binding:"omitempty,min=0"`
	Percent  float64  `json:"percent" binding:"min=0,max=100" example:"20"`
}

// UpdatePricesResponse HTTP批量调价响应
type UpdatePricesResponse struct {
	Updated int64 `json:"updated" example:"5"` // 实际更新的图书数
}
