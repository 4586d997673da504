// Package notification delivers SMS messages to clients through an
// external gateway and fans deliveries out over a worker pool.
package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/resilience"
)

var errGatewayTransient = crerr.New("sms gateway transient failure")

// GatewayConfig configures the SMS gateway HTTP client.
type GatewayConfig struct {
	BaseURL        string
	APIKey         string
	Sender         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Gateway sends SMS messages through a Kavenegar-compatible HTTP API.
type Gateway struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	sender         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type sendResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

func NewGateway(cfg GatewayConfig, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Gateway{
		client:         &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		sender:         strings.TrimSpace(cfg.Sender),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// SendSMS delivers a single message. Transient gateway failures and
// open-circuit rejections come back wrapped so callers can retry.
func (g *Gateway) SendSMS(ctx context.Context, phone, message string) error {
	if g.circuitEnabled {
		if err := g.breaker.Allow(); err != nil {
			g.logger.WarnContext(ctx, "sms circuit breaker rejected request", "state", g.breaker.State())
			return fmt.Errorf("sms gateway is temporarily unavailable: %w", err)
		}
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return crerr.New("recipient phone is required")
	}
	if strings.TrimSpace(message) == "" {
		return crerr.New("message body is required")
	}

	baseURL, err := validateHTTPBaseURL(g.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid SMS_BASE_URL")
	}
	sendURL := baseURL + "/v1/" + url.PathEscape(g.apiKey) + "/sms/send.json"

	body := g.buildForm(phone, message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create sms request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: send sms receptor=%s: %v", errGatewayTransient, maskPhone(phone), err)
		g.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode/100 != 2 {
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf(
				"%w: send sms status=%d receptor=%s body=%s",
				errGatewayTransient,
				resp.StatusCode,
				maskPhone(phone),
				strings.TrimSpace(string(raw)),
			)
			g.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf(
			"send sms status=%d receptor=%s body=%s",
			resp.StatusCode,
			maskPhone(phone),
			strings.TrimSpace(string(raw)),
		)
		g.recordCircuitResult(callErr)
		return callErr
	}

	var decoded sendResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		callErr := crerr.Wrap(err, "decode sms gateway response")
		g.recordCircuitResult(callErr)
		return callErr
	}
	if decoded.Return.Status != 0 && decoded.Return.Status/100 != 2 {
		callErr := fmt.Errorf(
			"send sms gateway_status=%d receptor=%s message=%s",
			decoded.Return.Status,
			maskPhone(phone),
			decoded.Return.Message,
		)
		g.recordCircuitResult(callErr)
		return callErr
	}

	g.logger.InfoContext(ctx, "sms delivered", "receptor", maskPhone(phone))
	g.recordCircuitResult(nil)
	return nil
}

func (g *Gateway) buildForm(phone, message string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("receptor=")
	_, _ = buf.WriteString(url.QueryEscape(phone))
	if g.sender != "" {
		_, _ = buf.WriteString("&sender=")
		_, _ = buf.WriteString(url.QueryEscape(g.sender))
	}
	_, _ = buf.WriteString("&message=")
	_, _ = buf.WriteString(url.QueryEscape(message))

	return buf.String()
}

func (g *Gateway) recordCircuitResult(err error) {
	if !g.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errGatewayTransient) {
		g.breaker.RecordFailure()
		return
	}
	if err == nil {
		g.breaker.RecordSuccess()
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return phone[:3] + "****" + phone[len(phone)-3:]
}
