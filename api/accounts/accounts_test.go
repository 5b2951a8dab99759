// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/api/accounts"
	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/genesis"
	"github.com/atomicwallet/awc-staking/lvldb"
)

var (
	alice = genesis.DevAccounts()[1].Address
	bob   = genesis.DevAccounts()[2].Address
	ts    *httptest.Server
)

func TestAccounts(t *testing.T) {
	initAccountsServer(t)
	defer ts.Close()

	for _, tt := range []struct {
		name string
		fn   func(*testing.T)
	}{
		{"getToken", getToken},
		{"getAccount", getAccount},
		{"getAccountWithInvalidAddress", getAccountWithInvalidAddress},
		{"approve", approve},
		{"transfer", transfer},
		{"transferExceedsBalance", transferExceedsBalance},
	} {
		t.Run(tt.name, tt.fn)
	}
}

func initAccountsServer(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	_, c, err := genesis.NewDevnet().Deploy(db)
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(c.NewService(nil, nil), c.Token).Mount(router, "/accounts")
	ts = httptest.NewServer(router)
}

func httpGet(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, path string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func fetchAccount(t *testing.T, addr awc.Address) *accounts.Account {
	body, status := httpGet(t, "/accounts/"+addr.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	return &acc
}

func getToken(t *testing.T) {
	body, status := httpGet(t, "/accounts/token")
	require.Equal(t, http.StatusOK, status, string(body))

	var tk accounts.Token
	require.NoError(t, json.Unmarshal(body, &tk))
	assert.Equal(t, builtin.Token, tk.Address)
	assert.Equal(t, "AWC", tk.Symbol)
	assert.Equal(t, uint8(awc.Decimals), tk.Decimals)
	// ten million in the treasury plus one million for each of the five dev accounts
	assert.Equal(t, awc.Units(15_000_000), (*big.Int)(tk.TotalSupply))
}

func getAccount(t *testing.T) {
	acc := fetchAccount(t, alice)
	assert.Equal(t, alice, acc.Address)
	assert.Equal(t, awc.Units(1_000_000), (*big.Int)(acc.Balance))
	assert.Zero(t, (*big.Int)(acc.StakerAllowance).Sign())
}

func getAccountWithInvalidAddress(t *testing.T) {
	_, status := httpGet(t, "/accounts/0x1234")
	assert.Equal(t, http.StatusBadRequest, status)
}

func approve(t *testing.T) {
	body, status := httpPost(t, "/accounts/"+alice.String()+"/approve", &accounts.ApproveRequest{
		Spender: builtin.Staker,
		Amount:  utils.NewAmount(awc.Units(300)),
	})
	require.Equal(t, http.StatusOK, status, string(body))

	acc := fetchAccount(t, alice)
	assert.Equal(t, awc.Units(300), (*big.Int)(acc.StakerAllowance))

	body, status = httpGet(t, "/accounts/"+alice.String()+"/allowance/"+builtin.Staker.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var allowance accounts.Allowance
	require.NoError(t, json.Unmarshal(body, &allowance))
	assert.Equal(t, awc.Units(300), (*big.Int)(allowance.Allowance))

	_, status = httpPost(t, "/accounts/"+alice.String()+"/approve", &accounts.ApproveRequest{Spender: builtin.Staker})
	assert.Equal(t, http.StatusBadRequest, status)
}

func transfer(t *testing.T) {
	body, status := httpPost(t, "/accounts/"+alice.String()+"/transfer", &accounts.TransferRequest{
		To:     bob,
		Amount: utils.NewAmount(awc.Units(250)),
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var res accounts.Account
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, awc.Units(999_750), (*big.Int)(res.Balance))
	assert.Equal(t, awc.Units(1_000_250), (*big.Int)(fetchAccount(t, bob).Balance))
}

func transferExceedsBalance(t *testing.T) {
	body, status := httpPost(t, "/accounts/"+bob.String()+"/transfer", &accounts.TransferRequest{
		To:     alice,
		Amount: utils.NewAmount(awc.Units(2_000_000)),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "transfer: amount exceeds balance", strings.TrimSpace(string(body)))
	assert.Equal(t, awc.Units(1_000_250), (*big.Int)(fetchAccount(t, bob).Balance))
}
