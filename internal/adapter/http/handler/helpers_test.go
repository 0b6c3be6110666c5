package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Temutjin2k/running-app/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/internal/service/auth"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrForbidden, http.StatusForbidden},
		{types.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("op: %w", types.ErrUserNotFound), http.StatusNotFound},
		{auth.ErrExpToken, http.StatusUnauthorized},
		{types.ErrIdentityProviderUnauthorized, http.StatusUnauthorized},
		{types.ErrKakaoIDConflict, http.StatusConflict},
		{fmt.Errorf("%w: open", types.ErrIdentityProviderUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Errorf("GetCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := wrap.Error(t.Context(), fmt.Errorf("KakaoClient.FetchProfile: %w: status 503", types.ErrIdentityProviderUnavailable))
	if got := ErrorMessage(err); got != types.ErrIdentityProviderUnavailable.Error() {
		t.Errorf("message = %q", got)
	}

	if got := ErrorMessage(errors.New("pq: connection reset")); got == "pq: connection reset" {
		t.Error("internal errors must not reach clients")
	}
}

func TestDecodeJSON_TypeErrorsUseJSONKeys(t *testing.T) {
	tests := []struct {
		body   string
		want   string
		goName string
	}{
		{body: `{"session_id":17}`, want: `"session_id"`, goName: "SessionID"},
		{body: `{"summary":{"distance_km":"far"}}`, goName: "DistanceKm"},
		{body: `{"started_at":true}`, goName: "StartedAt"},
	}

	for _, tt := range tests {
		err := decodeJSON(strings.NewReader(tt.body), &dto.SaveRunningRequest{})
		if err == nil {
			t.Fatalf("%s: expected a type error", tt.body)
		}
		if strings.Contains(err.Error(), tt.goName) {
			t.Errorf("%s: message %q exposes Go field %s", tt.body, err, tt.goName)
		}
		if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: message %q, want it to name %s", tt.body, err, tt.want)
		}
	}
}

func TestJSONFieldPath(t *testing.T) {
	dst := &dto.SaveRunningRequest{}

	tests := map[string]string{
		"SessionID":                "session_id",
		"session_id":               "session_id",
		"Summary.DistanceKm":       "summary.distance_km",
		"summary.duration_seconds": "summary.duration_seconds",
		"collection":               "",
		"Nope":                     "",
		"":                         "",
	}
	for field, want := range tests {
		if got := jsonFieldPath(dst, field); got != want {
			t.Errorf("jsonFieldPath(%q) = %q, want %q", field, got, want)
		}
	}
}
