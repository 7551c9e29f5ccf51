package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/model"
	"github.com/jt828/api-relay/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultRelayTimeout = 30 * time.Second

	// MaxRelayBodyBytes caps how much of an origin response is read and kept.
	MaxRelayBodyBytes = 10 << 20
)

var errRelayBodyTooLarge = fmt.Errorf("response body exceeds %d bytes", MaxRelayBodyBytes)

// HTTPDoer is the outbound transport. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the default outbound client. Redirects are followed
// and every status code is returned to the caller as is.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

type RelayService interface {
	// Relay performs the call and records exactly one history entry for it.
	// A transport failure is reported in the result, not as an error; the
	// returned error is set only when the history write itself failed.
	Relay(ctx context.Context, descriptor model.RequestDescriptor) (*model.RelayResult, error)
}

type relayService struct {
	uowFactory repository.UnitOfWorkFactory
	client     HTTPDoer
	timeout    time.Duration
	log        observability.Logger
	tracer     observability.Tracer
	attempts   observability.Counter
	latency    observability.Histogram
}

func NewRelayService(
	uowFactory repository.UnitOfWorkFactory,
	client HTTPDoer,
	timeout time.Duration,
	obs observability.Observability,
) RelayService {
	if client == nil {
		client = NewHTTPClient()
	}
	if timeout <= 0 {
		timeout = DefaultRelayTimeout
	}
	meter := obs.Meter()
	return &relayService{
		uowFactory: uowFactory,
		client:     client,
		timeout:    timeout,
		log:        obs.Logger(),
		tracer:     obs.Tracer(),
		attempts: meter.Counter("relay_requests_total", observability.MetricOpt{
			Help:      "Relay attempts by outcome and upstream status class.",
			LabelKeys: []string{"outcome", "status_class"},
		}),
		latency: meter.Histogram("relay_duration_seconds", observability.MetricOpt{
			Help:      "Wall-clock duration of relay attempts.",
			LabelKeys: []string{"outcome"},
		}),
	}
}

func (s *relayService) Relay(ctx context.Context, descriptor model.RequestDescriptor) (*model.RelayResult, error) {
	// The caller going away must not cut the attempt short or skip its
	// history entry; only the relay timeout ends it.
	ctx = context.WithoutCancel(ctx)

	ctx, span := s.tracer.Start(ctx, "relay.Execute",
		observability.Label{Key: "http.request.method", Value: strings.ToUpper(descriptor.Method)},
		observability.Label{Key: "url.full", Value: descriptor.Url},
	)
	defer span.End()

	start := time.Now()
	result := s.dispatch(ctx, descriptor)
	result.Duration = max(time.Since(start).Milliseconds(), 0)

	outcome := "success"
	if result.Failed {
		outcome = "failure"
	}
	s.attempts.Inc(1,
		observability.Label{Key: "outcome", Value: outcome},
		observability.Label{Key: "status_class", Value: statusClass(result.Status)},
	)
	s.latency.Observe(time.Since(start).Seconds(), observability.Label{Key: "outcome", Value: outcome})
	span.SetAttributes(
		observability.Label{Key: "http.response.status_code", Value: strconv.Itoa(result.Status)},
		observability.Label{Key: "relay.outcome", Value: outcome},
	)

	fields := []observability.Field{
		observability.String("method", descriptor.Method),
		observability.String("url", descriptor.Url),
		observability.Int("status", result.Status),
		observability.Int64("duration_ms", result.Duration),
	}
	if result.Failed {
		s.log.Warn("relay failed", append(fields, observability.String("error", result.Error))...)
	} else {
		s.log.Info("relay completed", fields...)
	}

	if err := s.record(ctx, historyDraft(descriptor, result)); err != nil {
		span.RecordError(err)
		s.log.Error("failed to record relay history", observability.Err(err), observability.String("url", descriptor.Url))
		return nil, fmt.Errorf("record relay history: %w", err)
	}

	return result, nil
}

func (s *relayService) dispatch(ctx context.Context, descriptor model.RequestDescriptor) *model.RelayResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var body io.Reader
	if descriptor.Body != nil && *descriptor.Body != "" {
		body = strings.NewReader(*descriptor.Body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(descriptor.Method), descriptor.Url, body)
	if err != nil {
		return s.failure(0, err)
	}
	for k, v := range descriptor.Headers {
		if strings.EqualFold(k, "host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.failure(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxRelayBodyBytes+1))
	if err != nil {
		return s.failure(resp.StatusCode, err)
	}
	if len(raw) > MaxRelayBodyBytes {
		return s.failure(resp.StatusCode, errRelayBodyTooLarge)
	}

	return &model.RelayResult{
		Data:       normalizeBody(raw),
		Status:     resp.StatusCode,
		StatusText: reasonPhrase(resp),
		Headers:    flattenHeaders(resp.Header),
	}
}

func (s *relayService) failure(status int, err error) *model.RelayResult {
	message := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		message = fmt.Sprintf("timeout of %dms exceeded", s.timeout.Milliseconds())
	}
	return &model.RelayResult{Status: status, Failed: true, Error: message}
}

func (s *relayService) record(ctx context.Context, draft *model.HistoryRecordDraft) error {
	uow, err := s.uowFactory.New()
	if err != nil {
		return err
	}

	if _, err := uow.RequestRepository().Insert(ctx, draft); err != nil {
		_ = uow.Abort(ctx)
		return err
	}

	return uow.Commit(ctx)
}

func historyDraft(descriptor model.RequestDescriptor, result *model.RelayResult) *model.HistoryRecordDraft {
	status := result.Status
	duration := result.Duration

	response := result.Data
	if result.Failed {
		response, _ = json.Marshal(map[string]string{"error": result.Error})
	}

	headers := maps.Clone(descriptor.Headers)
	if headers == nil {
		headers = map[string]string{}
	}

	body := descriptor.Body
	if body != nil && *body == "" {
		body = nil
	}

	return &model.HistoryRecordDraft{
		Method:   descriptor.Method,
		Url:      descriptor.Url,
		Headers:  headers,
		Body:     body,
		Response: response,
		Status:   &status,
		Duration: &duration,
	}
}

// normalizeBody keeps a JSON payload as is and wraps anything else as a JSON
// string, so the result always embeds as valid JSON.
func normalizeBody(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`""`)
	}
	if json.Valid(raw) {
		return raw
	}
	encoded, _ := json.Marshal(string(raw))
	return encoded
}

func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for k, vs := range h {
		flat[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return flat
}

func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		return http.StatusText(resp.StatusCode)
	}
	return phrase
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}
