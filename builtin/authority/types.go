// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import "github.com/atomicwallet/awc-staking/awc"

// entry is a role membership, linked with the other members of the same role.
type entry struct {
	Prev *awc.Address `rlp:"nil"`
	Next *awc.Address `rlp:"nil"`
}

type memberKey struct {
	role   awc.Bytes32
	member awc.Address
}

func (k memberKey) Bytes() []byte {
	return append(k.role.Bytes(), k.member.Bytes()...)
}

// listKey addresses the head/tail pointers of a role.
type listKey struct {
	role awc.Bytes32
	end  byte
}

func (k listKey) Bytes() []byte {
	return append(k.role.Bytes(), k.end)
}

const (
	headEnd byte = 'h'
	tailEnd byte = 't'
)
