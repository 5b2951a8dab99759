// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/lvldb"
	"github.com/atomicwallet/awc-staking/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return New(solidity.NewContext(awc.BytesToAddress([]byte("staker")), state.New(db)))
}

func assertTotals(t *testing.T, s *Service, staked, frozen int64) {
	gotStaked, gotFrozen, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(staked).String(), gotStaked.String())
	assert.Equal(t, big.NewInt(frozen).String(), gotFrozen.String())
}

func TestLifecycle(t *testing.T) {
	s := newService(t)
	assertTotals(t, s, 0, 0)

	require.NoError(t, s.AddStake(big.NewInt(100)))
	require.NoError(t, s.Freeze(big.NewInt(30)))
	assertTotals(t, s, 70, 30)

	require.NoError(t, s.Release(big.NewInt(30)))
	assertTotals(t, s, 70, 0)
}

func TestUnderflow(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.AddStake(big.NewInt(10)))

	assert.ErrorIs(t, s.Freeze(big.NewInt(11)), solidity.ErrUnderflow)
	assert.ErrorIs(t, s.Release(big.NewInt(1)), solidity.ErrUnderflow)
}

func TestReset(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.AddStake(big.NewInt(10)))
	require.NoError(t, s.Reset(big.NewInt(5), big.NewInt(6)))
	assertTotals(t, s, 5, 6)
}
