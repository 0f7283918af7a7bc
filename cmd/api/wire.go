//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go;
// 与main.go中的手动组装保持同一张依赖图,任一侧改动需同步另一侧
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookshop/internal/application/catalog"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/application/report"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
)

// infrastructureSet 基础设施层:配置、数据库、Redis
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,

	catalog.NewAddBookUseCase,
	catalog.NewListBooksUseCase,
	catalog.NewGetBookUseCase,
	catalog.NewSetStockUseCase,
	catalog.NewDeleteBookUseCase,
	catalog.NewUpdatePricesUseCase,
	catalog.NewDiscountPricesUseCase,

	apporder.NewCreateOrderUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewReplaceOrderItemsUseCase,
	apporder.NewDeleteOrderUseCase,
	apporder.NewInvoiceUseCase,

	report.NewSalesReportUseCase,
)

// middlewareSet JWT管理器、会话存储、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCatalogHandler,
	handler.NewOrderHandler,
	handler.NewReportHandler,
)

// provideJWTManager 从配置提取JWT参数
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 按配置创建事件发布者,未启用时注入空实现
func providePublisher(cfg *config.Config) (mq.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideGinEngine 创建Gin引擎并注册全部路由
// 路由表与main.go的buildRouter一致
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(serviceName))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/users/logout", userHandler.Logout)
			authorized.GET("/users/profile", userHandler.GetProfile)

			books := authorized.Group("/books")
			{
				books.POST("", catalogHandler.AddBook)
				books.GET("", catalogHandler.ListBooks)
				books.POST("/pricing", catalogHandler.UpdatePrices)
				books.POST("/discount", catalogHandler.DiscountPrices)
				books.GET("/:id", catalogHandler.GetBook)
				books.PUT("/:id/stock", catalogHandler.SetStock)
				books.DELETE("/:id", catalogHandler.DeleteBook)
			}

			orders := authorized.Group("/orders")
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id/items", orderHandler.ReplaceOrderItems)
				orders.DELETE("/:id", orderHandler.DeleteOrder)
				orders.GET("/:id/invoice", orderHandler.Invoice)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/sales", reportHandler.SalesReport)
			}
		}
	}

	return r
}

// InitializeApp 组装整个应用,返回配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		providePublisher,
		provideGinEngine,
	)

	return nil, nil
}
