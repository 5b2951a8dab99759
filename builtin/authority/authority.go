// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority keeps the role registry that gates privileged operations.
// Members of a role are kept in a doubly linked list, so they can be enumerated.
package authority

import (
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	slotEntries = awc.BytesToBytes32([]byte("entries"))
	slotEnds    = awc.BytesToBytes32([]byte("ends"))
	slotPresent = awc.BytesToBytes32([]byte("present"))
)

// Authority implements the role registry.
type Authority struct {
	entries *solidity.Mapping[memberKey, *entry]
	ends    *solidity.Mapping[listKey, *awc.Address]
	present *solidity.Mapping[memberKey, bool]
}

// New create a new instance.
func New(addr awc.Address, state *state.State) *Authority {
	ctx := solidity.NewContext(addr, state)
	return &Authority{
		entries: solidity.NewMapping[memberKey, *entry](ctx, slotEntries),
		ends:    solidity.NewMapping[listKey, *awc.Address](ctx, slotEnds),
		present: solidity.NewMapping[memberKey, bool](ctx, slotPresent),
	}
}

// HasRole returns whether member holds role.
func (a *Authority) HasRole(role awc.Bytes32, member awc.Address) (bool, error) {
	return a.present.Get(memberKey{role, member})
}

func (a *Authority) getEnd(role awc.Bytes32, end byte) (*awc.Address, error) {
	addr, err := a.ends.Get(listKey{role, end})
	if err != nil {
		return nil, err
	}
	if addr.IsZero() {
		return nil, nil
	}
	return addr, nil
}

func (a *Authority) setEnd(role awc.Bytes32, end byte, addr *awc.Address) error {
	if addr == nil {
		addr = &awc.Address{}
	}
	return a.ends.Set(listKey{role, end}, addr)
}

// Grant gives role to member.
// It returns false if member already holds the role.
func (a *Authority) Grant(role awc.Bytes32, member awc.Address) (bool, error) {
	has, err := a.HasRole(role, member)
	if err != nil || has {
		return false, err
	}

	tail, err := a.getEnd(role, tailEnd)
	if err != nil {
		return false, err
	}
	if tail == nil {
		if err := a.setEnd(role, headEnd, &member); err != nil {
			return false, err
		}
	} else {
		tailEntry, err := a.entries.Get(memberKey{role, *tail})
		if err != nil {
			return false, err
		}
		tailEntry.Next = &member
		if err := a.entries.Set(memberKey{role, *tail}, tailEntry); err != nil {
			return false, err
		}
	}
	if err := a.entries.Set(memberKey{role, member}, &entry{Prev: tail}); err != nil {
		return false, err
	}
	if err := a.setEnd(role, tailEnd, &member); err != nil {
		return false, err
	}
	return true, a.present.Set(memberKey{role, member}, true)
}

// Revoke removes role from member.
// It returns false if member does not hold the role.
func (a *Authority) Revoke(role awc.Bytes32, member awc.Address) (bool, error) {
	has, err := a.HasRole(role, member)
	if err != nil || !has {
		return false, err
	}
	e, err := a.entries.Get(memberKey{role, member})
	if err != nil {
		return false, err
	}

	if e.Prev == nil {
		if err := a.setEnd(role, headEnd, e.Next); err != nil {
			return false, err
		}
	} else {
		prev, err := a.entries.Get(memberKey{role, *e.Prev})
		if err != nil {
			return false, err
		}
		prev.Next = e.Next
		if err := a.entries.Set(memberKey{role, *e.Prev}, prev); err != nil {
			return false, err
		}
	}

	if e.Next == nil {
		if err := a.setEnd(role, tailEnd, e.Prev); err != nil {
			return false, err
		}
	} else {
		next, err := a.entries.Get(memberKey{role, *e.Next})
		if err != nil {
			return false, err
		}
		next.Prev = e.Prev
		if err := a.entries.Set(memberKey{role, *e.Next}, next); err != nil {
			return false, err
		}
	}

	if err := a.entries.Set(memberKey{role, member}, &entry{}); err != nil {
		return false, err
	}
	return true, a.present.Set(memberKey{role, member}, false)
}

// Members lists holders of role in grant order.
func (a *Authority) Members(role awc.Bytes32) ([]awc.Address, error) {
	var members []awc.Address
	ptr, err := a.getEnd(role, headEnd)
	if err != nil {
		return nil, err
	}
	for ptr != nil {
		members = append(members, *ptr)
		e, err := a.entries.Get(memberKey{role, *ptr})
		if err != nil {
			return nil, err
		}
		ptr = e.Next
	}
	return members, nil
}
