package dto

// RegisterRequest HTTP注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50" example:"张店长"`
	Email    string `json:"email" binding:"required,email" example:"admin@bookshop.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"passw0rd123"`
}

// UserResponse 用户响应(不含密码)
type UserResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"张店长"`
	Email string `json:"email" example:"admin@bookshop.com"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@bookshop.com"`
	Password string `json:"password" binding:"required" example:"passw0rd123"`
}

// UserInfo 登录响应中的用户信息
type UserInfo struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"张店长"`
	Email string `json:"email" example:"admin@bookshop.com"`
}

// LoginResponse HTTP登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in" example:"7200"` // Access Token有效期(秒)
}

// RefreshTokenRequest HTTP刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse HTTP刷新Token响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in" example:"7200"`
}
