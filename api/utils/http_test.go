// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils_test

import (
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", utils.BadRequest(errors.New("body: broken")), http.StatusBadRequest, "body: broken"},
		{"no cause", utils.HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
		{"revert", reverts.ErrAmountTooLow, http.StatusBadRequest, "deposit: amount is too low"},
		{"wrapped revert", pkgerrors.Wrap(reverts.ErrFreezeNotElapsed, "release"), http.StatusBadRequest, "release: getFreezeAtomic: freeze time not end"},
		{"unauthorized", reverts.ErrUnauthorized, http.StatusForbidden, "access: caller is missing role"},
		{"internal", errors.New("disk gone"), http.StatusInternalServerError, "disk gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			utils.WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, strings.TrimSpace(rr.Body.String()))
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Amount *utils.Amount `json:"amount"`
	}
	require.NoError(t, utils.ParseJSON(strings.NewReader(`{"amount":"0x64"}`), &v))
	amount, err := utils.ParseAmount(v.Amount, "amount")
	require.NoError(t, err)
	assert.Equal(t, "100", amount.String())

	assert.Error(t, utils.ParseJSON(strings.NewReader(`{"amount":"1","extra":1}`), &v))

	_, err = utils.ParseAmount(nil, "amount")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = utils.ParseAmount(utils.NewAmount(big.NewInt(-1)), "amount")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, utils.WriteJSON(rr, utils.M{"balance": utils.NewAmount(big.NewInt(255))}))
	assert.Equal(t, utils.JSONContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"balance":"0xff"}`, strings.TrimSpace(rr.Body.String()))
}
