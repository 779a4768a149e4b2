package wire

import (
	"Gavel/internal/api"
	"Gavel/internal/api/config"
	"Gavel/internal/api/handler"
	"Gavel/internal/job"
	"Gavel/internal/pkg/consts"
	"Gavel/internal/pkg/cron"
	"Gavel/internal/pkg/kafka"
	"Gavel/internal/pkg/mongo"
	"Gavel/internal/pkg/push"
	"Gavel/internal/pkg/redis"
	"Gavel/internal/pkg/trigger"
	"Gavel/internal/pkg/util"
	"Gavel/internal/repository"
	"Gavel/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	mongov1 "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
	// KafkaManager 与 TriggerPool 按触发模式二选一，另一个为 nil
	KafkaManager *kafka.ConsumerManager
	TriggerPool  *trigger.Pool
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongov1.Database, rdb *goredis.Client, cfg *config.Config) (*ApplicationContainer, error) {
	clock := service.NewClock(util.LoadLocation(cfg.Mission.Timezone))
	txRunner := repository.NewTxRunner(db, cfg.Mission.TxMaxAttempts)

	userRepo := repository.NewUserRepo(db)
	caseRepo := repository.NewCaseRepo(db)
	caseActionRepo := repository.NewCaseActionRepo(db)
	pointRepo := repository.NewPointHistoryRepo(db)
	noticeRepo := mongo.NewNoticeRepo(mongoDB)

	hotRank := redis.NewHotRank(rdb)
	blacklist := redis.NewTokenBlacklist(rdb)
	pushClient := push.NewGatewayClient(cfg.Push)

	hotScoreService := service.NewHotScoreService(caseActionRepo, caseRepo, hotRank)

	container := &ApplicationContainer{DB: db}

	// 热度重算触发：kafka 模式由 binlog 驱动，local 模式由写接口提交后入队
	var changeNotifier service.CaseChangeNotifier = service.NopChangeNotifier{}
	switch cfg.Trigger.Mode {
	case consts.TriggerModeLocal:
		pool := trigger.NewPool(cfg.Trigger.Workers, cfg.Trigger.Buffer, func(ctx context.Context, caseID uint64) error {
			_, err := hotScoreService.Recompute(ctx, caseID)
			return err
		})
		container.TriggerPool = pool
		changeNotifier = pool
	default:
		kafkaMgr, err := kafka.NewConsumerManager(cfg, hotScoreService)
		if err != nil {
			return nil, err
		}
		container.KafkaManager = kafkaMgr
	}
	log.Info("hot score trigger configured", "mode", cfg.Trigger.Mode)

	missionService := service.NewMissionService(txRunner, userRepo, caseRepo, pointRepo, clock)
	caseService := service.NewCaseService(txRunner, caseRepo, userRepo, hotRank, clock)
	caseActionService := service.NewCaseActionService(txRunner, caseActionRepo, caseRepo, userRepo, changeNotifier, clock)
	noticeService := service.NewNoticeService(noticeRepo, pushClient, cfg.Push.LinkBase)
	lifecycleService := service.NewCaseLifecycleService(
		txRunner, caseRepo, noticeService, clock,
		cfg.Scheduler.BatchSize, cfg.Scheduler.PushConcurrency,
	)
	authService := service.NewAuthService(blacklist)

	caseCloseJob := job.NewCaseCloseJob(lifecycleService, 0)
	container.CronMgr = cron.NewCronManager(cfg.Scheduler.CloseSpec, caseCloseJob)

	handlers := &api.HandlersGroup{
		AuthHandler:       handler.NewAuthHandler(authService),
		MissionHandler:    handler.NewMissionHandler(missionService),
		CaseHandler:       handler.NewCaseHandler(caseService, caseActionService),
		CaseActionHandler: handler.NewCaseActionHandler(caseActionService),
		NoticeHandler:     handler.NewNoticeHandler(noticeService),
	}
	container.Router = api.SetupRouter(handlers, &api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Blacklist:      blacklist,
	})

	return container, nil
}
