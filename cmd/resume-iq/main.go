package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-iq-go/internal/api/handler"
	"resume-iq-go/internal/api/router"
	"resume-iq-go/internal/config"
	"resume-iq-go/internal/logger"
	"resume-iq-go/internal/outbox"
	"resume-iq-go/internal/processor"
	"resume-iq-go/internal/storage"
	"resume-iq-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"
)

// @title           Resume IQ API
// @version         1.0
// @description     简历解析与ATS评分服务
// @BasePath  /api/v1
func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径，留空时在默认位置查找")
	pflag.Parse()

	// 初始化日志系统
	initLogger(*configPath)

	// 1. 加载配置文件
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置文件失败")
	}

	ctx := context.Background()

	// 2. 初始化链路追踪
	serviceName := cfg.Tracing.ServiceName
	if serviceName == "" {
		serviceName = "resume-iq"
	}
	shutdownTracing, err := tracing.InitTracerProvider(ctx, serviceName, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	// 3. 初始化存储管理器
	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储管理器失败")
	}
	defer storageManager.Close()

	// 4. 初始化业务处理器
	resumeHandler, err := initializeHandler(ctx, cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化简历处理器失败")
	}
	logger.Info().Msg("简历处理器初始化成功")

	// 5. 启动Outbox消息中继
	relay := outbox.NewMessageRelay(
		storageManager.MySQL.DB(),
		storageManager.RabbitMQ,
		logger.Logger,
	)
	relay.Start()
	defer relay.Stop()

	// 6. 启动消费者
	uploadWorkers := cfg.RabbitMQ.ConsumerWorkers["upload_consumer_workers"]
	if uploadWorkers <= 0 {
		uploadWorkers = cfg.RabbitMQ.PrefetchCount
	}
	analysisWorkers := cfg.RabbitMQ.ConsumerWorkers["analysis_consumer_workers"]
	if analysisWorkers <= 0 {
		analysisWorkers = cfg.RabbitMQ.PrefetchCount
	}

	go func() {
		if err := resumeHandler.StartResumeUploadConsumer(context.Background(), uploadWorkers); err != nil {
			logger.Fatal().Err(err).Msg("启动简历上传消费者失败")
		}
	}()
	go func() {
		if err := resumeHandler.StartAnalysisConsumer(context.Background(), analysisWorkers); err != nil {
			logger.Fatal().Err(err).Msg("启动简历分析消费者失败")
		}
	}()

	// 7. 创建HTTP服务器并注册路由
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
	)
	router.RegisterRoutes(h, resumeHandler)

	// 8. 启动HTTP服务器
	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	// 9. 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	// 10. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("链路追踪关闭失败")
	}

	logger.Info().Msg("优雅退出完成")
}

// 初始化日志系统
func initLogger(configPath string) {
	// 默认开发环境使用美化输出，生产环境使用JSON格式
	isProduction := os.Getenv("ENV") == "production"

	// 尝试加载配置文件
	cfg, err := config.LoadConfig(configPath)

	logConfig := logger.Config{
		Level:        "debug",
		Format:       "pretty",
		TimeFormat:   time.RFC3339,
		ReportCaller: true,
	}

	// 如果配置文件成功加载，使用配置文件中的日志设置
	if err == nil && cfg != nil {
		logConfig.Level = cfg.Logger.Level
		logConfig.Format = cfg.Logger.Format
		logConfig.TimeFormat = cfg.Logger.TimeFormat
		logConfig.ReportCaller = cfg.Logger.ReportCaller
	} else if isProduction {
		// 如果配置文件加载失败但是是生产环境，使用生产环境的默认设置
		logConfig.Level = "info"
		logConfig.Format = "json"
		logConfig.ReportCaller = false
	}

	logger.Init(logConfig)

	// 设置一些全局的字段
	logger.Logger = logger.Logger.With().
		Str("app", "resume-iq").
		Str("version", "1.0.0").
		Logger()

	// Hertz框架日志通过适配器统一走zerolog
	glog.SetLogger(hertzadapter.From(logger.Logger))
}

func initializeHandler(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*handler.ResumeHandler, error) {
	// 检查存储管理器
	if storageManager == nil {
		return nil, fmt.Errorf("存储管理器未初始化")
	}
	if storageManager.MinIO == nil {
		return nil, fmt.Errorf("MinIO实例未初始化")
	}
	if storageManager.RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ实例未初始化")
	}
	if storageManager.MySQL == nil {
		return nil, fmt.Errorf("MySQL实例未初始化")
	}

	// 创建简历处理服务
	service, err := processor.NewResumeService(ctx, cfg, storageManager, &logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("创建简历处理服务失败: %w", err)
	}

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, service)

	// 路线图按需重新生成接口需要独立的生成器
	if roadmapGen := processor.BuildRoadmapGenerator(cfg); roadmapGen != nil {
		resumeHandler.SetRoadmapGenerator(roadmapGen)
	}
	// 同步分析接口在只收到岗位名称时需要岗位解析器
	if jobParser := processor.BuildJobParser(cfg); jobParser != nil {
		resumeHandler.SetJobParser(jobParser)
	}

	return resumeHandler, nil
}
