// Package main 是 API 服务的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loanwise-go/internal/config"
	"loanwise-go/internal/handler"
	"loanwise-go/internal/middleware"
	"loanwise-go/internal/model"
	"loanwise-go/internal/repository"
	"loanwise-go/internal/service"
	"loanwise-go/pkg/database"
	"loanwise-go/pkg/llm"
	"loanwise-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMySQL(cfg.Database.MySQL)
	database.InitRedis(cfg.Database.Redis)
	if err := database.DB.AutoMigrate(&model.Product{}, &model.ChatMessage{}); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 初始化生成式 AI 客户端（进程启动时创建一次，请求处理期间复用）
	llmClient, err := llm.NewGeminiClient(context.Background(), cfg.Gemini)
	if err != nil {
		log.Fatal("Gemini 客户端初始化失败", err)
	}
	defer llmClient.Close()

	// 5. 初始化 Repository 和 Service (依赖注入)
	messageRepo := repository.NewChatMessageRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB, database.RDB)
	chatService := service.NewChatService(messageRepo, productRepo, llmClient)
	productService := service.NewProductService(productRepo)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	api := r.Group("/api")
	{
		chat := handler.NewChatHandler(chatService)
		api.POST("/chat", chat.PostMessage)
		api.GET("/chat", chat.GetMessages)

		products := handler.NewProductHandler(productService)
		api.GET("/products", products.ListProducts)
		api.GET("/products/:id", products.GetProduct)
		api.POST("/recommendations", products.Recommend)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
