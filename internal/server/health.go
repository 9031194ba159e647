package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeeCh0129/greenie-backend/internal/middleware"
)

// HealthServer serves grpc.health.v1 and keeps its status in step with the database
type HealthServer struct {
	grpc     *grpc.Server
	health   *health.Server
	db       Pinger
	interval time.Duration
	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewHealthServer creates a gRPC server exposing only the health service
func NewHealthServer(lgr *zap.Logger, db Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(middleware.ChainUnaryInterceptors(
		middleware.RecoveryInterceptor(lgr),
		middleware.LoggingInterceptor(lgr),
		middleware.ErrorInterceptor(),
	)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &HealthServer{
		grpc:     srv,
		health:   hs,
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// GRPC returns the underlying server for Serve
func (s *HealthServer) GRPC() *grpc.Server {
	return s.grpc
}

// Start probes the database once and then on every interval until Stop
func (s *HealthServer) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.probe()
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.probe()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends probing, marks every service NOT_SERVING and drains the gRPC server
func (s *HealthServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.started.Load() {
			<-s.done
		}
		s.health.Shutdown()
		s.grpc.GracefulStop()
	})
}

func (s *HealthServer) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		zap.L().Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}
