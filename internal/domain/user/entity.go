package user

import (
	"time"
)

// User 后台员工账号实体（聚合根）
// DDD设计说明：
// 1. 订单上的录单人(owner_user_id)引用此实体
// 2. 密码已加密存储（bcrypt），不提供任何暴露明文的方法
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Name      string // 姓名
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(name, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
