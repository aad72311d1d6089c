// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/internal/platform/constants"
	"github.com/taibuivan/anngon/internal/platform/ctxutil"
	"github.com/taibuivan/anngon/internal/platform/middleware"
)

/*
TestRequestID_EchoesClientID verifies that a client-supplied correlation ID
is propagated to the context and echoed on the response header.
*/
func TestRequestID_EchoesClientID(t *testing.T) {
	var seenInContext string

	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seenInContext = ctxutil.GetRequestID(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-supplied-id")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "client-supplied-id", seenInContext)
	assert.Equal(t, "client-supplied-id", recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRequestID_GeneratesWhenMissing verifies that a fresh ID is minted when
the client did not send one.
*/
func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRealIP covers the proxy-header precedence for client IP extraction.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name         string
		realIP       string
		forwardedFor string
		remoteAddr   string
		expected     string
	}{
		{"x_real_ip_wins", "203.0.113.7", "198.51.100.1, 10.0.0.1", "10.0.0.2:4321", "203.0.113.7"},
		{"forwarded_for_first_hop", "", "198.51.100.1, 10.0.0.1", "10.0.0.2:4321", "198.51.100.1"},
		{"remote_addr_fallback", "", "", "10.0.0.2:4321", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				request.Header.Set(constants.HeaderXRealIP, tt.realIP)
			}
			if tt.forwardedFor != "" {
				request.Header.Set(constants.HeaderXForwardedFor, tt.forwardedFor)
			}

			assert.Equal(t, tt.expected, middleware.RealIP(request))
		})
	}
}
