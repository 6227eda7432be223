package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/httputil"
	"github.com/kjannette/bullion-premium/internal/logging"
)

// Sender posts operator alerts to a Slack or Discord webhook.
type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *logrus.Entry

	wg sync.WaitGroup
}

func NewSender(webhookURL, botName string, log logrus.FieldLogger) *Sender {
	if botName == "" {
		botName = "BullionPremium"
	}
	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
		log: logging.Component(log, "notify"),
	}
}

// Send logs msg and posts it to the webhook, if one is configured.
func (s *Sender) Send(ctx context.Context, msg string) error {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	s.log.Info(formatted)

	if s.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, s.log, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Notify sends msg in the background; failures are logged.
func (s *Sender) Notify(msg string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Send(ctx, msg); err != nil {
			s.log.WithError(err).Warn("notification not delivered")
		}
	}()
}

// QuotaExhausted is the quota gate hook.
func (s *Sender) QuotaExhausted(month string, limit int) {
	s.Notify(fmt.Sprintf("spot API quota exhausted for %s (%d calls); serving cached and sample prices until next month", month, limit))
}

// Wait blocks until background notifications have finished.
func (s *Sender) Wait() { s.wg.Wait() }

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}
