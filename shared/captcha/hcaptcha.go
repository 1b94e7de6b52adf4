// Package captcha verifies hCaptcha responses submitted with staff login.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
)

const DefaultVerifyURL = "https://hcaptcha.com/siteverify"

// ResponseField is the form field holding the widget token.
const ResponseField = "h-captcha-response"

type Verifier interface {
	Verify(ctx context.Context, response string) error
}

type HCaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewHCaptcha(secret string) *HCaptcha {
	return &HCaptcha{
		secret:    secret,
		verifyURL: DefaultVerifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithURL points the verifier at another endpoint, used by tests.
func (h *HCaptcha) WithURL(u string) *HCaptcha {
	h.verifyURL = u
	return h
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to hCaptcha. Any failure is reported as a 400 so the
// login form can be retried.
func (h *HCaptcha) Verify(ctx context.Context, response string) error {
	if response == "" {
		return &errors.ErrorWithStatusCode{Message: ResponseField + " not found in input form data", StatusCode: http.StatusBadRequest}
	}

	form := url.Values{"secret": {h.secret}, "response": {response}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Log.Warn("captcha verification request failed", "error", err)
		return validationFailed()
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || !body.Success {
		logger.Log.Info("captcha rejected", "status", resp.StatusCode, "error_codes", body.ErrorCodes)
		return validationFailed()
	}
	return nil
}

func validationFailed() error {
	return &errors.ErrorWithStatusCode{Message: "h-captcha validation failed", StatusCode: http.StatusBadRequest}
}

// Disabled accepts everything. Used when captcha is turned off in config.
type Disabled struct{}

func (Disabled) Verify(context.Context, string) error { return nil }
