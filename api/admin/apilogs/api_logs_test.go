// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/atomicwallet/awc-staking/api/admin/apilogs"
)

func TestAPILogs(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedBody   string
		expectedState  bool
	}{
		{
			name:           "get status",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"enabled":false}`,
		},
		{
			name:           "enable",
			method:         http.MethodPost,
			body:           `{"enabled":true}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"enabled":true}`,
			expectedState:  true,
		},
		{
			name:           "invalid body keeps state",
			method:         http.MethodPost,
			body:           `{"enabled":"yes"}`,
			expectedStatus: http.StatusBadRequest,
			expectedState:  true,
		},
		{
			name:           "disable",
			method:         http.MethodPost,
			body:           `{"enabled":false}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"enabled":false}`,
		},
	}

	var enabled atomic.Bool
	router := mux.NewRouter()
	apilogs.New(&enabled).Mount(router, "/admin/apilogs")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/admin/apilogs", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, strings.TrimSpace(rr.Body.String()))
			}
			assert.Equal(t, tt.expectedState, enabled.Load())
		})
	}
}
