// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
)

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, awc.BytesToBytes32([]byte("total")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(40)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), ErrUnderflow)

	require.NoError(t, u.Sub(big.NewInt(60)))
	raw, err := ctx.State().GetRawStorage(ctx.Address(), awc.BytesToBytes32([]byte("total")))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[uint64](ctx, awc.Bytes32{7})

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, r.Upsert(12345))
	v, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), v)
}
