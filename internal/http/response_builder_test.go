package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"expenso/internal/core"
	"expenso/internal/snapshot"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/x").
		Data(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated || w.Body.String() != `{"n":1}` {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Location") != "/x" || w.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	UnprocessableEntityError("bad amount").Write(w)
	if w.Code != http.StatusUnprocessableEntity || w.Body.String() != `{"error":"bad amount"}` {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrExpenseNotFound, http.StatusNotFound},
		{snapshot.ErrInvalidFormat, http.StatusBadRequest},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrUnknownPeriod, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
