// Package grpchealth exposes the service health over the standard gRPC
// health checking protocol so orchestrators can probe it without HTTP.
package grpchealth

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"videoquiz/ai-services/models"
)

// Per-component service names. The empty name carries the overall status.
const (
	ServiceWhisper = "whisper"
	ServiceLLM     = "llm"
)

// Prober produces the current health snapshot.
type Prober interface {
	Check(ctx context.Context) models.HealthResponse
}

// Server mirrors Prober results into a grpc health server on an interval.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	prober   Prober
	interval time.Duration
	log      *logrus.Logger
	stop     chan struct{}
}

// New creates a Server that re-probes every interval.
func New(prober Prober, interval time.Duration, log *logrus.Logger) *Server {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	return &Server{
		grpc:     gs,
		health:   hs,
		prober:   prober,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Sync probes once and publishes the result.
func (s *Server) Sync(ctx context.Context) models.HealthResponse {
	res := s.prober.Check(ctx)
	s.health.SetServingStatus("", servingStatus(res.Healthy()))
	s.health.SetServingStatus(ServiceWhisper, servingStatus(res.Models["whisper"] == models.WhisperLoaded))
	s.health.SetServingStatus(ServiceLLM, servingStatus(res.Models["llm"] == models.LLMConnected))
	return res
}

// Health returns the underlying health service implementation.
func (s *Server) Health() healthpb.HealthServer {
	return s.health
}

// Serve publishes an initial status, keeps it fresh and serves on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.Sync(context.Background())
	go s.watch()
	s.log.Infof("gRPC health server listening on %s", lis.Addr())
	return s.grpc.Serve(lis)
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			res := s.Sync(context.Background())
			s.log.WithField("status", res.Status).Debug("gRPC health status refreshed")
		case <-s.stop:
			return
		}
	}
}

// Stop marks every service NOT_SERVING and shuts the server down gracefully.
func (s *Server) Stop() {
	close(s.stop)
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
