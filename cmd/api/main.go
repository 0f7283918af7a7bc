package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

const serviceName = "bookshop-api"

// main 书店后台服务入口
// 依赖按 Repository ← Service ← UseCase ← Handler 的方向手动组装,
// 与cmd/api/wire.go中的Wire配置保持同一张依赖图
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(serviceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer shutdown(context.Background())
		fmt.Println("✓ 链路追踪已启用")
	}

	// 4. 初始化数据库连接(含表结构迁移)
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	if cfg.Database.SeedDemo {
		if err := mysql.SeedDemoBooks(db); err != nil {
			log.Printf("[WARN] 注入演示书目失败: %v", err)
		}
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化事件发布者(可选)
	var publisher mq.EventPublisher = mq.NopPublisher{}
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		publisher = p
	}
	defer publisher.Close()

	// 7. 依赖注入(手动组装)

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore, jwtManager)
	refreshUseCase := appuser.NewRefreshTokenUseCase(jwtManager)

	addBookUseCase := catalog.NewAddBookUseCase(bookRepo)
	listBooksUseCase := catalog.NewListBooksUseCase(bookRepo)
	getBookUseCase := catalog.NewGetBookUseCase(bookRepo)
	setStockUseCase := catalog.NewSetStockUseCase(bookRepo, txManager)
	deleteBookUseCase := catalog.NewDeleteBookUseCase(bookRepo, orderRepo, txManager)
	updatePricesUseCase := catalog.NewUpdatePricesUseCase(bookRepo, txManager)
	discountPricesUseCase := catalog.NewDiscountPricesUseCase(bookRepo, txManager)

	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, bookRepo, txManager)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	replaceItemsUseCase := apporder.NewReplaceOrderItemsUseCase(orderRepo, bookRepo, txManager)
	deleteOrderUseCase := apporder.NewDeleteOrderUseCase(orderRepo, txManager)
	invoiceUseCase := apporder.NewInvoiceUseCase(orderRepo, bookRepo)

	salesReportUseCase := report.NewSalesReportUseCase(orderRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, refreshUseCase)
	catalogHandler := handler.NewCatalogHandler(
		addBookUseCase,
		listBooksUseCase,
		getBookUseCase,
		setStockUseCase,
		deleteBookUseCase,
		updatePricesUseCase,
		discountPricesUseCase,
		publisher,
	)
	orderHandler := handler.NewOrderHandler(
		createOrderUseCase,
		listOrdersUseCase,
		getOrderUseCase,
		replaceItemsUseCase,
		deleteOrderUseCase,
		invoiceUseCase,
		publisher,
	)
	reportHandler := handler.NewReportHandler(salesReportUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 构建路由
	r := buildRouter(cfg, userHandler, catalogHandler, orderHandler, reportHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   接口文档: http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 10. 等待退出信号,优雅停止
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在停止服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] 服务停止超时: %v", err)
	}
	log.Println("服务已停止")
}

// buildRouter 构建Gin引擎并注册全部路由
func buildRouter(
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

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus抓取端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 账号模块(公开接口)
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/users/logout", userHandler.Logout)
			authorized.GET("/users/profile", userHandler.GetProfile)

			// 图书目录模块
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

			// 销售订单模块
			orders := authorized.Group("/orders")
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id/items", orderHandler.ReplaceOrderItems)
				orders.DELETE("/:id", orderHandler.DeleteOrder)
				orders.GET("/:id/invoice", orderHandler.Invoice)
			}

			// 报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/sales", reportHandler.SalesReport)
			}
		}
	}

	return r
}
