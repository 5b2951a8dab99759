// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/staker"
	"github.com/atomicwallet/awc-staking/builtin/token"
)

// Accounts serves token balances and transfers. Writes go through the
// service so they serialize with staking operations.
type Accounts struct {
	svc   *staker.Service
	token *token.Token
}

func New(svc *staker.Service, tk *token.Token) *Accounts {
	return &Accounts{svc, tk}
}

func parseAddress(req *http.Request, name string) (awc.Address, error) {
	addr, err := awc.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return awc.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (a *Accounts) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var res *Token
	if err := a.svc.View(req.Context(), func(uint64) error {
		info, err := a.token.Info()
		if err != nil {
			return err
		}
		supply, err := a.token.TotalSupply()
		if err != nil {
			return err
		}
		res = &Token{
			Address:     a.token.Address(),
			Name:        info.Name,
			Symbol:      info.Symbol,
			Decimals:    info.Decimals,
			TotalSupply: utils.NewAmount(supply),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	res := &Account{Address: addr}
	if err := a.svc.View(req.Context(), func(uint64) error {
		balance, err := a.token.BalanceOf(addr)
		if err != nil {
			return err
		}
		allowance, err := a.token.Allowance(addr, a.svc.Staker().Address())
		if err != nil {
			return err
		}
		res.Balance = utils.NewAmount(balance)
		res.StakerAllowance = utils.NewAmount(allowance)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Accounts) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	spender, err := parseAddress(req, "spender")
	if err != nil {
		return err
	}
	res := &Allowance{Owner: owner, Spender: spender}
	if err := a.svc.View(req.Context(), func(uint64) error {
		allowance, err := a.token.Allowance(owner, spender)
		if err != nil {
			return err
		}
		res.Allowance = utils.NewAmount(allowance)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Accounts) handleApprove(w http.ResponseWriter, req *http.Request) error {
	owner, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := a.svc.Update(req.Context(), func(uint64) error {
		return a.token.Approve(owner, body.Spender, amount)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Allowance{Owner: owner, Spender: body.Spender, Allowance: utils.NewAmount(amount)})
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	from, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := a.svc.Update(req.Context(), func(uint64) error {
		if err := a.token.Transfer(from, body.To, amount); err != nil {
			return err
		}
		balance, err = a.token.BalanceOf(from)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Address: from, Balance: utils.NewAmount(balance)})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/token").Methods(http.MethodGet).Name("GET /accounts/token").HandlerFunc(utils.WrapHandlerFunc(a.handleGetToken))
	sub.Path("/{address}").Methods(http.MethodGet).Name("GET /accounts/{address}").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/allowance/{spender}").Methods(http.MethodGet).Name("GET /accounts/{address}/allowance/{spender}").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAllowance))
	sub.Path("/{address}/approve").Methods(http.MethodPost).Name("POST /accounts/{address}/approve").HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
	sub.Path("/{address}/transfer").Methods(http.MethodPost).Name("POST /accounts/{address}/transfer").HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
}
