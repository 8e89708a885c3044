package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/metrics/public"
)

const (
	pushRetries      = 3
	pushRetryWaitMin = 500 * time.Millisecond
)

// retryableHTTPLogger adapts zap.Logger to retryablehttp.LeveledLogger.
type retryableHTTPLogger struct {
	inner *zap.Logger
}

func (r retryableHTTPLogger) Error(format string, args ...any) {
	r.inner.Sugar().Errorw(format, args...)
}

func (r retryableHTTPLogger) Info(format string, args ...any) {
	r.inner.Sugar().Infow(format, args...)
}

func (r retryableHTTPLogger) Warn(format string, args ...any) {
	r.inner.Sugar().Warnw(format, args...)
}

func (r retryableHTTPLogger) Debug(format string, args ...any) {
	r.inner.Sugar().Debugw(format, args...)
}

func newPushClient(logger *zap.Logger, period time.Duration) *http.Client {
	client := retryablehttp.NewClient()
	client.Logger = retryableHTTPLogger{inner: logger}
	client.RetryMax = pushRetries
	client.RetryWaitMin = pushRetryWaitMin
	// retries never overlap with the next push
	client.RetryWaitMax = max(period/(pushRetries+1), pushRetryWaitMin)
	client.Backoff = retryablehttp.LinearJitterBackoff
	return client.StandardClient()
}

// PushMetrics pushes the public registry to a pushgateway at url every period
// until ctx is cancelled.
func PushMetrics(ctx context.Context, logger *zap.Logger, url string, headers map[string]string,
	period time.Duration, session string,
) {
	header := http.Header{}
	for k, v := range headers {
		header.Add(k, v)
	}
	pusher := push.New(url, "tempomesh").Gatherer(public.Registry).
		Client(newPushClient(logger, period)).
		Grouping("session", session).
		Header(header)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pusher.PushContext(ctx); err != nil {
				logger.Warn("failed to push metrics", zap.Error(err))
			}
		}
	}
}
