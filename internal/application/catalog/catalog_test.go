package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 目录模块用例测试
//
// 测试场景覆盖:
// 1. 图书入库(ISBN唯一性、可缺省字段)
// 2. 列表与详情查询
// 3. 库存盘点(允许负值修正)
// 4. 图书删除(订单引用检查)
// 5. 批量调价(set/scale模式、筛选条件、空价格处理)

// newTestDB 打开内存SQLite并迁移表结构
// 内存库每个连接各自独立,连接池限制为1保证所有操作落在同一个库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "打开内存数据库失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.AutoMigrate(db), "迁移表结构失败")
	return db
}

type catalogFixture struct {
	db       *gorm.DB
	add      *AddBookUseCase
	list     *ListBooksUseCase
	get      *GetBookUseCase
	setStock *SetStockUseCase
	del      *DeleteBookUseCase
	update   *UpdatePricesUseCase
	discount *DiscountPricesUseCase
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	db := newTestDB(t)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)

	return &catalogFixture{
		db:       db,
		add:      NewAddBookUseCase(bookRepo),
		list:     NewListBooksUseCase(bookRepo),
		get:      NewGetBookUseCase(bookRepo),
		setStock: NewSetStockUseCase(bookRepo, txManager),
		del:      NewDeleteBookUseCase(bookRepo, orderRepo, txManager),
		update:   NewUpdatePricesUseCase(bookRepo, txManager),
		discount: NewDiscountPricesUseCase(bookRepo, txManager),
	}
}

// mustAddBook 入库一本图书,失败直接终止测试
func (f *catalogFixture) mustAddBook(t *testing.T, req AddBookRequest) *BookDetail {
	t.Helper()

	detail, err := f.add.Execute(context.Background(), req)
	require.NoError(t, err, "入库图书失败: %s", req.Title)
	return detail
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestAddBook(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("正常入库", func(t *testing.T) {
		detail, err := f.add.Execute(ctx, AddBookRequest{
			Title:  "Go程序设计语言",
			Author: "Alan Donovan",
			ISBN:   strPtr("9787111558422"),
			Stock:  10,
			Price:  floatPtr(79.0),
		})
		require.NoError(t, err, "入库应该成功")

		assert.NotZero(t, detail.ID, "图书ID应该大于0")
		assert.Equal(t, "Go程序设计语言", detail.Title)
		assert.Equal(t, 10, detail.Stock)
		require.NotNil(t, detail.Price)
		assert.InDelta(t, 79.0, *detail.Price, 0.001)
	})

	t.Run("ISBN重复应失败", func(t *testing.T) {
		isbn := strPtr("9780451524935")
		f.mustAddBook(t, AddBookRequest{Title: "1984", Author: "George Orwell", ISBN: isbn, Stock: 5})

		_, err := f.add.Execute(ctx, AddBookRequest{
			Title:  "1984(新版)",
			Author: "George Orwell",
			ISBN:   isbn,
			Stock:  3,
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeISBNDuplicate),
			"重复ISBN应该返回ISBN冲突错误, 实际为 %v", err)
	})

	t.Run("无ISBN的图书可以并存", func(t *testing.T) {
		// 唯一索引只约束非空ISBN,NULL之间不冲突
		f.mustAddBook(t, AddBookRequest{Title: "内部讲义(上)", Author: "佚名", Stock: 1})
		f.mustAddBook(t, AddBookRequest{Title: "内部讲义(下)", Author: "佚名", Stock: 1})
	})

	t.Run("初始库存为负应失败", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddBookRequest{Title: "负库存", Author: "测试", Stock: -1})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"负库存应该返回参数错误, 实际为 %v", err)
	})

	t.Run("价格为负应失败", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddBookRequest{
			Title: "负价格", Author: "测试", Stock: 1, Price: floatPtr(-0.01),
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"负价格应该返回参数错误, 实际为 %v", err)
	})
}

func TestListBooks(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("空目录返回空列表", func(t *testing.T) {
		resp, err := f.list.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Total)
		assert.Empty(t, resp.List)
	})

	t.Run("按ID升序返回", func(t *testing.T) {
		b1 := f.mustAddBook(t, AddBookRequest{Title: "第一本", Author: "甲", Stock: 1})
		b2 := f.mustAddBook(t, AddBookRequest{Title: "第二本", Author: "乙", Stock: 2})
		b3 := f.mustAddBook(t, AddBookRequest{Title: "第三本", Author: "丙", Stock: 3})

		resp, err := f.list.Execute(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, resp.Total)
		assert.Equal(t, []uint{b1.ID, b2.ID, b3.ID},
			[]uint{resp.List[0].ID, resp.List[1].ID, resp.List[2].ID}, "列表应该按ID升序")
	})
}

func TestGetBook(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("查询已入库图书", func(t *testing.T) {
		added := f.mustAddBook(t, AddBookRequest{
			Title: "El Quijote", Author: "Miguel de Cervantes",
			ISBN: strPtr("9788491050291"), Stock: 10, Price: floatPtr(19.99),
		})

		detail, found, err := f.get.Execute(ctx, added.ID)
		require.NoError(t, err)
		require.True(t, found, "图书应该存在")
		assert.Equal(t, "El Quijote", detail.Title)
		require.NotNil(t, detail.ISBN)
		assert.Equal(t, "9788491050291", *detail.ISBN)
	})

	t.Run("图书不存在返回未命中", func(t *testing.T) {
		detail, found, err := f.get.Execute(ctx, 99999)
		assert.NoError(t, err, "读未命中不是错误")
		assert.False(t, found)
		assert.Nil(t, detail)
	})
}

func TestSetStock(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("盘点修正库存", func(t *testing.T) {
		added := f.mustAddBook(t, AddBookRequest{Title: "盘点用书", Author: "测试", Stock: 5})

		detail, found, err := f.setStock.Execute(ctx, added.ID, 12)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 12, detail.Stock, "返回的快照应该是盘点后的库存")

		// 再读一次确认落库
		got, found, err := f.get.Execute(ctx, added.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 12, got.Stock)
	})

	t.Run("盘点允许修正为负值", func(t *testing.T) {
		added := f.mustAddBook(t, AddBookRequest{Title: "亏空用书", Author: "测试", Stock: 2})

		detail, found, err := f.setStock.Execute(ctx, added.ID, -3)
		require.NoError(t, err, "盘点写入不做下限校验")
		require.True(t, found)
		assert.Equal(t, -3, detail.Stock)
	})

	t.Run("图书不存在返回未命中", func(t *testing.T) {
		detail, found, err := f.setStock.Execute(ctx, 99999, 10)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, detail)
	})
}

func TestDeleteBook(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("正常删除", func(t *testing.T) {
		added := f.mustAddBook(t, AddBookRequest{Title: "待删除", Author: "测试", Stock: 1})

		deleted, err := f.del.Execute(ctx, added.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, found, err := f.get.Execute(ctx, added.ID)
		require.NoError(t, err)
		assert.False(t, found, "删除后查询应该未命中")
	})

	t.Run("被订单引用的图书拒绝删除", func(t *testing.T) {
		added := f.mustAddBook(t, AddBookRequest{Title: "已售图书", Author: "测试", Stock: 10})

		// 直接造一条引用该图书的订单明细
		orderModel := mysql.OrderModel{CustomerName: "门店一号", Total: 0}
		require.NoError(t, f.db.Create(&orderModel).Error)
		require.NoError(t, f.db.Create(&mysql.OrderLineModel{
			OrderID: orderModel.ID, BookID: added.ID, Quantity: 1,
		}).Error)

		deleted, err := f.del.Execute(ctx, added.ID)
		assert.False(t, deleted)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBookReferenced),
			"被引用图书应该返回引用冲突错误, 实际为 %v", err)

		// 图书行保持不变
		got, found, err := f.get.Execute(ctx, added.ID)
		require.NoError(t, err)
		require.True(t, found, "删除被拒后图书行应该仍然存在")
		assert.Equal(t, "已售图书", got.Title)
	})

	t.Run("图书不存在返回未命中", func(t *testing.T) {
		deleted, err := f.del.Execute(ctx, 99999)
		assert.NoError(t, err, "删除不存在的图书不是错误")
		assert.False(t, deleted)
	})
}

func TestUpdatePrices(t *testing.T) {
	ctx := context.Background()

	t.Run("set模式写入绝对价格", func(t *testing.T) {
		f := newCatalogFixture(t)
		b1 := f.mustAddBook(t, AddBookRequest{Title: "甲", Author: "作者A", Stock: 1, Price: floatPtr(10)})
		b2 := f.mustAddBook(t, AddBookRequest{Title: "乙", Author: "作者A", Stock: 1})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			IDs:      []uint{b1.ID, b2.ID},
			SetPrice: floatPtr(50),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Updated)

		for _, id := range []uint{b1.ID, b2.ID} {
			got, found, err := f.get.Execute(ctx, id)
			require.NoError(t, err)
			require.True(t, found)
			require.NotNil(t, got.Price)
			assert.InDelta(t, 50.0, *got.Price, 0.001)
		}
	})

	t.Run("scale模式按作者筛选且空价格按0参与", func(t *testing.T) {
		f := newCatalogFixture(t)
		priced := f.mustAddBook(t, AddBookRequest{
			Title: "Cien años de soledad", Author: "Gabriel García Márquez",
			Stock: 7, Price: floatPtr(10),
		})
		unpriced := f.mustAddBook(t, AddBookRequest{
			Title: "El otoño del patriarca", Author: "Gabriel García Márquez", Stock: 3,
		})
		other := f.mustAddBook(t, AddBookRequest{
			Title: "1984", Author: "George Orwell", Stock: 5, Price: floatPtr(8),
		})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			Author:      strPtr("Gabriel García Márquez"),
			ScaleFactor: floatPtr(1.1),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Updated, "只有该作者的两本命中")

		got, _, err := f.get.Execute(ctx, priced.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Price)
		assert.InDelta(t, 11.0, *got.Price, 0.001, "10元按1.1缩放应该是11元")

		// 未定价图书缩放后落库为0,不再是NULL
		got, _, err = f.get.Execute(ctx, unpriced.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Price, "缩放后空价格应该落库为0")
		assert.InDelta(t, 0.0, *got.Price, 0.001)

		// 其他作者不受影响
		got, _, err = f.get.Execute(ctx, other.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Price)
		assert.InDelta(t, 8.0, *got.Price, 0.001)
	})

	t.Run("set与scale同传时set优先", func(t *testing.T) {
		f := newCatalogFixture(t)
		b := f.mustAddBook(t, AddBookRequest{Title: "双模式", Author: "测试", Stock: 1, Price: floatPtr(100)})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			IDs:         []uint{b.ID},
			SetPrice:    floatPtr(20),
			ScaleFactor: floatPtr(0.5),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Updated)

		got, _, err := f.get.Execute(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Price)
		assert.InDelta(t, 20.0, *got.Price, 0.001, "set应该优先于scale")
	})

	t.Run("系数为1时仍按命中行数计数", func(t *testing.T) {
		// 命中行数与值变更行数不同:系数1不改变任何值,但两行都命中
		f := newCatalogFixture(t)
		f.mustAddBook(t, AddBookRequest{Title: "甲", Author: "原价作者", Stock: 1, Price: floatPtr(10)})
		f.mustAddBook(t, AddBookRequest{Title: "乙", Author: "原价作者", Stock: 1, Price: floatPtr(20)})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			Author:      strPtr("原价作者"),
			ScaleFactor: floatPtr(1.0),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Updated)
	})

	t.Run("空筛选作用于整个目录", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.mustAddBook(t, AddBookRequest{Title: "甲", Author: "A", Stock: 1, Price: floatPtr(1)})
		f.mustAddBook(t, AddBookRequest{Title: "乙", Author: "B", Stock: 1, Price: floatPtr(2)})
		f.mustAddBook(t, AddBookRequest{Title: "丙", Author: "C", Stock: 1})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{SetPrice: floatPtr(5)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Updated, "不传筛选条件应该命中全部图书")
	})

	t.Run("价格区间筛选含边界", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.mustAddBook(t, AddBookRequest{Title: "甲", Author: "A", Stock: 1, Price: floatPtr(10)})
		f.mustAddBook(t, AddBookRequest{Title: "乙", Author: "A", Stock: 1, Price: floatPtr(20)})
		f.mustAddBook(t, AddBookRequest{Title: "丙", Author: "A", Stock: 1, Price: floatPtr(30)})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			MinPrice: floatPtr(10),
			MaxPrice: floatPtr(20),
			SetPrice: floatPtr(15),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Updated, "区间两端都应该包含")
	})

	t.Run("未指定模式应失败", func(t *testing.T) {
		f := newCatalogFixture(t)

		_, err := f.update.Execute(ctx, UpdatePricesRequest{Author: strPtr("任意")})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"未指定调价模式应该返回参数错误, 实际为 %v", err)
	})

	t.Run("set负价格应失败", func(t *testing.T) {
		f := newCatalogFixture(t)

		_, err := f.update.Execute(ctx, UpdatePricesRequest{SetPrice: floatPtr(-1)})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"负价格应该返回参数错误, 实际为 %v", err)
	})

	t.Run("筛选未命中返回0", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.mustAddBook(t, AddBookRequest{Title: "甲", Author: "A", Stock: 1, Price: floatPtr(10)})

		resp, err := f.update.Execute(ctx, UpdatePricesRequest{
			Author:   strPtr("不存在的作者"),
			SetPrice: floatPtr(5),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Updated)
	})
}

func TestDiscountPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("打九折", func(t *testing.T) {
		f := newCatalogFixture(t)
		b := f.mustAddBook(t, AddBookRequest{Title: "促销图书", Author: "测试", Stock: 1, Price: floatPtr(100)})

		resp, err := f.discount.Execute(ctx, DiscountPricesRequest{
			IDs:     []uint{b.ID},
			Percent: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Updated)

		got, _, err := f.get.Execute(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Price)
		assert.InDelta(t, 90.0, *got.Price, 0.001, "100元打九折应该是90元")
	})

	t.Run("折扣比例超范围应失败", func(t *testing.T) {
		f := newCatalogFixture(t)

		_, err := f.discount.Execute(ctx, DiscountPricesRequest{Percent: 120})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"超过100的折扣比例应该返回参数错误, 实际为 %v", err)
	})
}
