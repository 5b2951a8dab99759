// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/staker"
)

const (
	defaultStakersLimit = 50
	maxStakersLimit     = 1000
)

type Staker struct {
	svc *staker.Service
}

func New(svc *staker.Service) *Staker {
	return &Staker{svc}
}

func (s *Staker) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := s.svc.Stake(req.Context(), body.User, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Amount: utils.NewAmount(amount)})
}

func (s *Staker) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	paid, err := s.svc.Unstake(req.Context(), body.User, amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Amount: utils.NewAmount(amount), Paid: utils.NewAmount(paid)})
}

func (s *Staker) parseUser(req *http.Request) (awc.Address, error) {
	var body UserRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return awc.Address{}, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return body.User, nil
}

func (s *Staker) handleUnstakeAll(w http.ResponseWriter, req *http.Request) error {
	user, err := s.parseUser(req)
	if err != nil {
		return err
	}
	amount, paid, err := s.svc.UnstakeAll(req.Context(), user)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Amount: utils.NewAmount(amount), Paid: utils.NewAmount(paid)})
}

func (s *Staker) handleClaim(w http.ResponseWriter, req *http.Request) error {
	user, err := s.parseUser(req)
	if err != nil {
		return err
	}
	paid, err := s.svc.ClaimReward(req.Context(), user)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Paid: utils.NewAmount(paid)})
}

func (s *Staker) handleRestake(w http.ResponseWriter, req *http.Request) error {
	user, err := s.parseUser(req)
	if err != nil {
		return err
	}
	compounded, err := s.svc.Restake(req.Context(), user)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Compounded: utils.NewAmount(compounded)})
}

func (s *Staker) handleRelease(w http.ResponseWriter, req *http.Request) error {
	user, err := s.parseUser(req)
	if err != nil {
		return err
	}
	released, paid, err := s.svc.GetFreezeAtomic(req.Context(), user)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Receipt{Released: utils.NewAmount(released), Paid: utils.NewAmount(paid)})
}

func (s *Staker) handleSetMinStake(w http.ResponseWriter, req *http.Request) error {
	var body MinStakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := s.svc.SetMinStakeAmount(req.Context(), body.Caller, amount); err != nil {
		return err
	}
	return s.writeConfig(w, req)
}

func (s *Staker) handleSetRewardRate(w http.ResponseWriter, req *http.Request) error {
	var body RewardRateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.svc.SetRewardPerSecond(req.Context(), body.Caller, body.PercentBasisPoints); err != nil {
		return err
	}
	return s.writeConfig(w, req)
}

func (s *Staker) handleMigrate(w http.ResponseWriter, req *http.Request) error {
	from, to, err := s.svc.Migrate(req.Context())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &MigrateResult{From: from, To: to})
}

func (s *Staker) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := awc.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	view, err := s.svc.Account(req.Context(), addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, view))
}

func (s *Staker) writeConfig(w http.ResponseWriter, req *http.Request) error {
	cfg, err := s.svc.Config(req.Context())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertConfig(cfg))
}

func (s *Staker) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	return s.writeConfig(w, req)
}

func parseUint(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func (s *Staker) handleGetStakers(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	offset, err := parseUint(query.Get("offset"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	limit, err := parseUint(query.Get("limit"), defaultStakersLimit)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > maxStakersLimit {
		return utils.Forbidden(errors.Errorf("limit: exceeds %d", maxStakersLimit))
	}
	users, err := s.svc.Stakers(req.Context(), offset, limit)
	if err != nil {
		return err
	}
	if users == nil {
		users = []awc.Address{}
	}
	return utils.WriteJSON(w, users)
}

func (s *Staker) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stake").Methods(http.MethodPost).Name("POST /staker/stake").HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/unstake").Methods(http.MethodPost).Name("POST /staker/unstake").HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/unstake-all").Methods(http.MethodPost).Name("POST /staker/unstake-all").HandlerFunc(utils.WrapHandlerFunc(s.handleUnstakeAll))
	sub.Path("/claim").Methods(http.MethodPost).Name("POST /staker/claim").HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/restake").Methods(http.MethodPost).Name("POST /staker/restake").HandlerFunc(utils.WrapHandlerFunc(s.handleRestake))
	sub.Path("/release").Methods(http.MethodPost).Name("POST /staker/release").HandlerFunc(utils.WrapHandlerFunc(s.handleRelease))
	sub.Path("/min-stake").Methods(http.MethodPost).Name("POST /staker/min-stake").HandlerFunc(utils.WrapHandlerFunc(s.handleSetMinStake))
	sub.Path("/reward-rate").Methods(http.MethodPost).Name("POST /staker/reward-rate").HandlerFunc(utils.WrapHandlerFunc(s.handleSetRewardRate))
	sub.Path("/migrate").Methods(http.MethodPost).Name("POST /staker/migrate").HandlerFunc(utils.WrapHandlerFunc(s.handleMigrate))

	sub.Path("/accounts/{address}").Methods(http.MethodGet).Name("GET /staker/accounts/{address}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/config").Methods(http.MethodGet).Name("GET /staker/config").HandlerFunc(utils.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/stakers").Methods(http.MethodGet).Name("GET /staker/stakers").HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakers))
}
