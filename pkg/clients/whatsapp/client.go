package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/shopreports/internal/config"
)

// Notifier delivers plain-text report digests to a fixed recipient through
// the WhatsApp Cloud API.
type Notifier struct {
	httpClient    *resty.Client
	phoneNumberID string
	recipient     string
}

// NewNotifier builds a notifier from the WhatsApp configuration.
func NewNotifier(cfg config.WhatsAppConfig) *Notifier {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Notifier{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
		recipient:     cfg.Recipient,
	}
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// Notify sends body as a text message and returns the WhatsApp message id.
func (n *Notifier) Notify(ctx context.Context, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", errors.New("notification body must not be empty")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                n.recipient,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": false,
		},
	}

	result := new(sendResponse)
	apiErr := new(apiError)

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", n.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return "", fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}
