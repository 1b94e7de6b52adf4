package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	code := errors.StatusCode(err)
	msg := err.Error()
	// internal details stay in the log
	if code == http.StatusInternalServerError {
		logger.Log.Error("internal error", "error", err)
		msg = http.StatusText(code)
	}
	http.Error(w, msg, code)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// GetClientRemoteAddress returns the client address. With cloudflare set the
// CF-Connecting-IP header wins over everything else. X-Real-IP and
// X-Forwarded-For are client controlled unless our own proxy sets them, so
// they are read only with trustProxy.
func GetClientRemoteAddress(r *http.Request, cloudflare, trustProxy bool) (string, error) {
	if cloudflare {
		if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
			return ip, nil
		}
	}
	if trustProxy {
		if ip, ok := proxyIP(r); ok {
			return ip, nil
		}
	}
	return GetIP(r)
}

// proxyIP reads the address a trusted reverse proxy put in front of the request.
// The proxy appends to X-Forwarded-For, so only its last entry is used.
func proxyIP(r *http.Request) (string, bool) {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip, true
	}
	forwarded := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	if ip := strings.TrimSpace(forwarded[len(forwarded)-1]); net.ParseIP(ip) != nil {
		return ip, true
	}
	return "", false
}

// GetIP returns the address of the connected peer.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		logger.Log.Debug("bad remote addr", "remote_addr", r.RemoteAddr, "error", err)
		return "", err
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("No valid ip found")
	}
	return ip, nil
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400}
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body is not json", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	return nil
}
