package book

// 定价领域规则
// 跨图书的批量调价走Repository.UpdatePrices,这里只放纯换算

// DiscountFactor 将折扣百分比换算为批量调价的缩放系数
// 业务规则:
// - percent必须在[0,100]区间,否则返回ErrInvalidDiscount
//   (负折扣是变相涨价,超过100会把价格打成负数,都拒绝)
// - 打八折传percent=20,对应系数0.8
func DiscountFactor(percent float64) (float64, error) {
	if percent < 0 || percent > 100 {
		return 0, ErrInvalidDiscount
	}
	return 1 - percent/100, nil
}
