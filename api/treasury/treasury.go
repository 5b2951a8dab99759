// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package treasury

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/staker"
	"github.com/atomicwallet/awc-staking/builtin/treasury"
)

type Pool struct {
	Address     awc.Address   `json:"address"`
	RewardToken awc.Address   `json:"rewardToken"`
	Balance     *utils.Amount `json:"balance"`
}

// WithdrawRequest drains funds from the pool. The caller needs the withdraw role.
type WithdrawRequest struct {
	Caller awc.Address   `json:"caller"`
	To     awc.Address   `json:"to"`
	Amount *utils.Amount `json:"amount"`
}

type Treasury struct {
	svc  *staker.Service
	pool *treasury.Treasury
}

func New(svc *staker.Service, pool *treasury.Treasury) *Treasury {
	return &Treasury{svc, pool}
}

func (t *Treasury) readPool() (*Pool, error) {
	token, err := t.pool.RewardToken()
	if err != nil {
		return nil, err
	}
	balance, err := t.pool.Balance()
	if err != nil {
		return nil, err
	}
	return &Pool{
		Address:     t.pool.Address(),
		RewardToken: token,
		Balance:     utils.NewAmount(balance),
	}, nil
}

func (t *Treasury) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	var pool *Pool
	if err := t.svc.View(req.Context(), func(uint64) (err error) {
		pool, err = t.readPool()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (t *Treasury) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	var pool *Pool
	if err := t.svc.Update(req.Context(), func(uint64) error {
		if err := t.pool.Withdraw(body.Caller, body.To, amount); err != nil {
			return err
		}
		pool, err = t.readPool()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (t *Treasury) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /treasury").HandlerFunc(utils.WrapHandlerFunc(t.handleGetPool))
	sub.Path("/withdraw").Methods(http.MethodPost).Name("POST /treasury/withdraw").HandlerFunc(utils.WrapHandlerFunc(t.handleWithdraw))
}
