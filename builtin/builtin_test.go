// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/lvldb"
	"github.com/atomicwallet/awc-staking/state"
)

func TestNew(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	c := New(state.New(db))

	assert.Equal(t, Token, c.Token.Address())
	assert.Equal(t, Treasury, c.Treasury.Address())
	assert.Equal(t, Staker, c.Staker.Address())
	assert.Equal(t, "Staker", Name(Staker))
	assert.Equal(t, "", Name(awc.Address{}))

	ok, err := c.Staker.IsInitialized()
	require.NoError(t, err)
	assert.False(t, ok)
}
