// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the built-in contracts of a staking deployment to a state.
package builtin

import (
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/authority"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/params"
	"github.com/atomicwallet/awc-staking/builtin/staker"
	"github.com/atomicwallet/awc-staking/builtin/token"
	"github.com/atomicwallet/awc-staking/builtin/treasury"
	"github.com/atomicwallet/awc-staking/state"
)

// Builtin contract addresses.
var (
	Token     = awc.BytesToAddress([]byte("Token"))
	Authority = awc.BytesToAddress([]byte("Authority"))
	Params    = awc.BytesToAddress([]byte("Params"))
	Treasury  = awc.BytesToAddress([]byte("Treasury"))
	Staker    = awc.BytesToAddress([]byte("Staker"))
)

// Contracts is the set of built-in contracts bound to one state.
// They share an event journal.
type Contracts struct {
	State     *state.State
	Journal   *events.Journal
	Token     *token.Token
	Authority *authority.Authority
	Params    *params.Params
	Treasury  *treasury.Treasury
	Staker    *staker.Staker
}

// New binds all contracts to the state.
func New(st *state.State) *Contracts {
	journal := &events.Journal{}
	tk := token.New(Token, st)
	auth := authority.New(Authority, st)
	par := params.New(Params, st)
	tr := treasury.New(Treasury, st, tk, auth, journal)

	return &Contracts{
		State:     st,
		Journal:   journal,
		Token:     tk,
		Authority: auth,
		Params:    par,
		Treasury:  tr,
		Staker:    staker.New(Staker, st, par, tk, tr, auth, journal),
	}
}

// NewService wraps the staker into a serialized service persisting events to sink.
func (c *Contracts) NewService(sink staker.EventSink, clock staker.Clock) *staker.Service {
	return staker.NewService(c.State, c.Staker, c.Journal, sink, clock)
}

// Name returns the name of a built-in contract address, empty if unknown.
func Name(addr awc.Address) string {
	switch addr {
	case Token:
		return "Token"
	case Authority:
		return "Authority"
	case Params:
		return "Params"
	case Treasury:
		return "Treasury"
	case Staker:
		return "Staker"
	}
	return ""
}
