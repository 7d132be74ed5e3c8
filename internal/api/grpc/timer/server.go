package timer

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/logger"
)

// Service abstracts the skill operations the transport layer depends on.
type Service interface {
	// Utter handles text and returns the intent it was routed to.
	Utter(ctx context.Context, text string) string
	// Timers returns a snapshot of the active timers.
	Timers() []*domain.Record
	// Now returns the skill clock.
	Now() time.Time
}

// Server implements the TimerService gRPC API.
type Server struct {
	// service provides the skill operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Utter routes an utterance to the skill.
func (s *Server) Utter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	text := strings.TrimSpace(req.GetValue())
	if text == "" {
		return nil, status.Error(codes.InvalidArgument, "utterance is required")
	}

	if actor := ActorFromContext(ctx); actor != nil {
		ctx = logger.WithKV(ctx, "actor", actor.String())
	}

	routed := s.service.Utter(ctx, text)

	response, err := structpb.NewStruct(map[string]any{"routed": routed})
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode response")
	}

	return response, nil
}

// ListTimers returns the active timers ordered by expiration.
func (s *Server) ListTimers(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	now := s.service.Now()
	records := s.service.Timers()

	timers := make([]any, 0, len(records))
	for _, record := range records {
		timers = append(timers, toStructFields(record, now))
	}

	response, err := structpb.NewStruct(map[string]any{"timers": timers})
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode timers")
	}

	return response, nil
}

// NewHealthServer registers the standard health service on srv and marks the
// timer service as serving.
func NewHealthServer(srv *grpc.Server) *health.Server {
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return healthServer
}

// ActorFromContext reads the sending actor from incoming metadata.
func ActorFromContext(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	actor := &domain.Actor{
		Hostname: first(md.Get(HostnameKey)),
		Username: first(md.Get(UsernameKey)),
	}

	if actor.Hostname == "" && actor.Username == "" {
		return nil
	}

	return actor
}

// ActorToContext attaches the actor to outgoing metadata.
func ActorToContext(ctx context.Context, actor *domain.Actor) context.Context {
	if actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx,
		HostnameKey, actor.Hostname,
		UsernameKey, actor.Username,
	)
}

// toStructFields converts a timer to a structpb-compatible map.
func toStructFields(record *domain.Record, now time.Time) map[string]any {
	return map[string]any{
		"id":                record.ID,
		"name":              record.Name,
		"user_named":        record.UserNamed,
		"index":             record.Index,
		"ordinal":           record.Ordinal,
		"duration_seconds":  record.Duration.Seconds(),
		"remaining_seconds": record.Remaining(now).Seconds(),
		"expiration":        record.Expiration.UTC().Format(time.RFC3339),
		"expired":           record.Expired(now),
		"announced":         record.Announced,
		"muted":             record.Muted,
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
