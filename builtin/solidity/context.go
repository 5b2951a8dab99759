// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/state"
)

// Context binds a built-in contract address to the state it reads and writes.
type Context struct {
	address awc.Address
	state   *state.State
}

func NewContext(address awc.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() awc.Address {
	return c.address
}
