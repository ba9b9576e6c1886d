package service

import (
"bytes"
"context"
"encoding/json"
"net/http"
"strconv"
"time"

"presale-backend/internal/core/domain"
"presale-backend/internal/core/ports"

"github.com/rs/zerolog"
)

// alertRetryIntervals is the delay before each redelivery attempt.
var alertRetryIntervals = []time.Duration{
15 * time.Second,
60 * time.Second,
2 * time.Minute,
5 * time.Minute,
10 * time.Minute,
}

// Alert delivery headers.
const (
HeaderAlertSignature = "X-Presale-Signature"
HeaderAlertTimestamp = "X-Presale-Timestamp"
)

// HTTPClient interface for testability.
type HTTPClient interface {
Do(req *http.Request) (*http.Response, error)
}

// alertService implements ports.AlertService: every alert is logged at
// error level and, when a webhook URL is configured, POSTed as signed JSON.
type alertService struct {
webhookURL string
secret     string
sigSvc     ports.SignatureService
httpClient HTTPClient
retries    []time.Duration
log        zerolog.Logger
}

// NewAlertService creates a new operator alert service.
func NewAlertService(
webhookURL string,
secret string,
sigSvc ports.SignatureService,
httpClient HTTPClient,
log zerolog.Logger,
) ports.AlertService {
return &alertService{
webhookURL: webhookURL,
secret:     secret,
sigSvc:     sigSvc,
httpClient: httpClient,
retries:    alertRetryIntervals,
log:        log,
}
}

// Notify logs the alert and delivers it asynchronously with retries.
func (s *alertService) Notify(ctx context.Context, alert domain.Alert) {
if alert.OccurredAt.IsZero() {
alert.OccurredAt = time.Now().UTC()
}

s.log.Error().
Str("event", string(alert.Event)).
Str("reference", alert.Reference).
Str("wallet", alert.WalletAddress).
Interface("details", alert.Details).
Msg(alert.Message)

if s.webhookURL == "" {
return
}

body, err := json.Marshal(alert)
if err != nil {
s.log.Error().Err(err).Str("reference", alert.Reference).Msg("alert: failed to marshal payload")
return
}

go s.deliverWithRetries(body, alert.Reference)
}

// deliverWithRetries attempts delivery, backing off between attempts.
func (s *alertService) deliverWithRetries(body []byte, ref string) {
for attempt := 0; attempt <= len(s.retries); attempt++ {
if attempt > 0 {
time.Sleep(s.retries[attempt-1])
}

ts := time.Now().Unix()
req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewReader(body))
if err != nil {
s.log.Error().Err(err).Str("reference", ref).Int("attempt", attempt+1).Msg("alert: failed to create request")
return
}
req.Header.Set("Content-Type", "application/json")
req.Header.Set(HeaderAlertTimestamp, strconv.FormatInt(ts, 10))
req.Header.Set(HeaderAlertSignature, s.sigSvc.Sign(s.secret, AlertSigningPayload(ts, body)))

resp, err := s.httpClient.Do(req)
if err != nil {
s.log.Warn().Err(err).Str("reference", ref).Int("attempt", attempt+1).Msg("alert: delivery failed")
continue
}
resp.Body.Close()

if resp.StatusCode >= 200 && resp.StatusCode < 300 {
s.log.Info().Str("reference", ref).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("alert: delivered")
return
}

s.log.Warn().Str("reference", ref).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("alert: non-2xx response, retrying")
}

s.log.Error().Str("reference", ref).Msg("alert: all retry attempts exhausted")
}
