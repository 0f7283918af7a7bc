package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段,不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&OrderModel{},
		&OrderLineModel{},
	)
}

// SeedDemoBooks 目录为空时注入演示书目
// 由database.seed_demo开关控制,只在全新环境生效
func SeedDemoBooks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&BookModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计图书失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	demo := []BookModel{
		{Title: "1984", Author: "George Orwell", ISBN: strPtr("9780451524935"), Stock: 5, Price: floatPtr(12.5)},
		{Title: "El Quijote", Author: "Miguel de Cervantes", ISBN: strPtr("9788491050291"), Stock: 10, Price: floatPtr(19.99)},
		{Title: "Cien años de soledad", Author: "Gabriel García Márquez", ISBN: strPtr("9780307474728"), Stock: 7, Price: floatPtr(14.99)},
	}
	if err := db.Create(&demo).Error; err != nil {
		return fmt.Errorf("写入演示书目失败: %w", err)
	}

	log.Printf("✓ 已注入%d本演示图书", len(demo))
	return nil
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;comment:姓名"`
	Email     string `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN可为NULL;唯一索引允许多行NULL并存,只约束非空值
// 2. Price可为NULL表示未定价,按比例调价时按0元参与计算
// 3. Author加索引支撑批量调价的作者筛选
// 4. 硬删除:删除前应用层会检查订单明细引用,不使用软删除
//    (软删除会让同ISBN重新上架撞唯一索引)
type BookModel struct {
	ID        uint     `gorm:"primaryKey"`
	Title     string   `gorm:"size:200;not null;comment:书名"`
	Author    string   `gorm:"index;size:100;not null;comment:作者"`
	ISBN      *string  `gorm:"uniqueIndex;size:20;comment:ISBN号"`
	Stock     int      `gorm:"not null;default:0;comment:库存数量"`
	Price     *float64 `gorm:"comment:价格(元)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 设计说明:
// 1. 与OrderLineModel是一对多关系
// 2. Total记录下单时刻按当时价格累计的总额(历史快照)
// 3. CreatedAt加索引,订单列表按创建时间倒序
type OrderModel struct {
	ID           uint             `gorm:"primaryKey"`
	CustomerName string           `gorm:"size:100;comment:客户姓名"`
	OwnerUserID  *uint            `gorm:"index;comment:录单员工ID"`
	Total        float64          `gorm:"not null;default:0;comment:订单总金额(元)"`
	Lines        []OrderLineModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt    time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel GORM订单明细模型
// 设计说明:
// 1. (order_id, book_id)联合唯一索引:同一订单内每本书至多一行
// 2. book_id单独加索引,支撑删除图书前的引用检查
type OrderLineModel struct {
	ID       uint `gorm:"primaryKey"`
	OrderID  uint `gorm:"uniqueIndex:uk_order_book;not null;comment:订单ID"`
	BookID   uint `gorm:"uniqueIndex:uk_order_book;index;not null;comment:图书ID"`
	Quantity int  `gorm:"not null;comment:购买数量"`
}

// TableName 指定表名
func (OrderLineModel) TableName() string {
	return "order_lines"
}
