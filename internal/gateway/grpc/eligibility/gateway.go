package eligibility

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
	retrierconfig "courier-dispatch/pkg/retrier"
	"courier-dispatch/pkg/retrier/backoff_adapter"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName = "eligibility-service"

	listCandidatesMethod = "/eligibility.v1.EligibilityService/ListCandidates"
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 1 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
)

type Gateway struct {
	client  client
	retrier retrier
	timeout time.Duration
}

// New timeout ограничивает одну попытку, 0 - без ограничения.
func New(client client, timeout time.Duration) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryableCode,
	}

	return &Gateway{
		client:  client,
		retrier: backoff_adapter.New(retryConfig),
		timeout: timeout,
	}
}

// ListCandidates курьеры, которым разрешено предложить заказ. Активность смены не проверяется.
func (g *Gateway) ListCandidates(ctx context.Context, order *entities.Order) ([]int64, error) {
	req := toRequest(order)

	var resp listCandidatesResponse

	err := g.executeWithMetrics(ctx, "ListCandidates", func(ctx context.Context) error {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		resp = listCandidatesResponse{}
		return g.client.Invoke(ctx, listCandidatesMethod, req, &resp, grpc.CallContentSubtype(codecName))
	})
	if err != nil {
		return nil, fmt.Errorf("gateway eligibility, list candidates: %s: %w", order.ID, err)
	}

	return toDomain(&resp), nil
}

func isRetryableCode(err error) bool {
	if err == nil {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.ResourceExhausted,
		codes.Unavailable,
		codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	grpcCode := getGRPCCode(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, grpcCode).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, grpcCode).Inc()
	}

	return err
}

func getGRPCCode(err error) string {
	if err == nil {
		return "OK"
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return "UNKNOWN"
}
