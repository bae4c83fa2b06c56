package worker

import (
	"context"
	"errors"
	"time"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultPurgeInterval  = time.Hour
	defaultPurgeRetention = 7 * 24 * time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// RefreshTokenPurger 清理失效刷新令牌
type RefreshTokenPurger interface {
	PurgeStaleRefreshTokens(retention time.Duration) (int64, error)
}

// PurgeService 定期清理过期或已吊销的刷新令牌
type PurgeService struct {
	purger    RefreshTokenPurger
	interval  time.Duration
	retention time.Duration
}

// NewPurgeService 创建令牌清理服务
func NewPurgeService(cfg *config.QueueConfig, purger RefreshTokenPurger) *PurgeService {
	interval := defaultPurgeInterval
	retention := defaultPurgeRetention
	if cfg != nil {
		if cfg.RefreshTokenPurgeMinutes > 0 {
			interval = time.Duration(cfg.RefreshTokenPurgeMinutes) * time.Minute
		}
		if cfg.RefreshTokenRetentionDays > 0 {
			retention = time.Duration(cfg.RefreshTokenRetentionDays) * 24 * time.Hour
		}
	}
	return &PurgeService{purger: purger, interval: interval, retention: retention}
}

// Name 服务名称
func (s *PurgeService) Name() string {
	return "refresh_token_purge"
}

// Start 立即执行一次，之后按间隔执行直到 ctx 结束
func (s *PurgeService) Start(ctx context.Context) error {
	if s == nil || s.purger == nil {
		return errors.New("purge service not initialized")
	}
	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// Stop 停止服务，循环随 ctx 退出
func (s *PurgeService) Stop(ctx context.Context) error {
	return nil
}

func (s *PurgeService) runOnce() {
	purged, err := s.purger.PurgeStaleRefreshTokens(s.retention)
	if err != nil {
		logger.Warnw("worker_refresh_token_purge_failed", "error", err)
		return
	}
	if purged > 0 {
		logger.Infow("worker_refresh_token_purged", "count", purged)
	}
}
