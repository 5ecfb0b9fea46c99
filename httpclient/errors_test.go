package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
		isNil  bool
	}{
		{200, 0, true},
		{204, 0, true},
		{400, ErrCodeValidation, false},
		{401, ErrCodeAuth, false},
		{403, ErrCodeAuth, false},
		{404, ErrCodeNotFound, false},
		{429, ErrCodeRateLimit, false},
		{500, ErrCodeServer, false},
		{302, ErrCodeServer, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tc.status), func(t *testing.T) {
			err := ClassifyStatusCode(tc.status, nil)
			if tc.isNil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tc.want {
				t.Errorf("expected %s, got %s", tc.want, err.Code)
			}
			if err.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, err.StatusCode)
			}
		})
	}
}

func TestError_Format(t *testing.T) {
	err := ClassifyStatusCode(404, nil)
	if err.Error() != "httpclient: not_found (HTTP 404): Request failed with status code 404" {
		t.Errorf("unexpected Error(): %q", err.Error())
	}
	conn := NewConnectionError(errors.New("dial tcp: refused"))
	if conn.Error() != "httpclient: connection: dial tcp: refused" {
		t.Errorf("unexpected Error(): %q", conn.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	err := NewCanceledError(context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected errors.Is(context.Canceled)")
	}
	wrapped := fmt.Errorf("exchange: %w", err)
	if !IsCanceled(wrapped) {
		t.Error("expected IsCanceled through wrapping")
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Error("expected empty message for nil")
	}
	if Message(errors.New("plain")) != "plain" {
		t.Error("expected plain error text")
	}
	if Message(ClassifyStatusCode(500, nil)) != "Request failed with status code 500" {
		t.Error("expected status message")
	}
}

func TestErrorCode_String(t *testing.T) {
	codes := map[ErrorCode]string{
		ErrCodeTimeout:    "timeout",
		ErrCodeCanceled:   "canceled",
		ErrCodeConnection: "connection",
		ErrCodeValidation: "validation",
		ErrorCode(99):     "unknown",
	}
	for code, want := range codes {
		if code.String() != want {
			t.Errorf("expected %q, got %q", want, code.String())
		}
	}
}

func TestKind(t *testing.T) {
	if got := Kind(ClassifyStatusCode(404, nil)); got != "not_found" {
		t.Errorf("expected not_found, got %q", got)
	}
	if got := Kind(NewConnectionError(fmt.Errorf("dial: refused"))); got != "connection" {
		t.Errorf("expected connection, got %q", got)
	}
	if got := Kind(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty kind for a foreign error, got %q", got)
	}
}
