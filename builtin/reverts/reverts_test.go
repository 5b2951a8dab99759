// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrAmountTooLow))
	assert.True(t, IsRevertErr(errors.Wrap(ErrFreezeNotElapsed, "getFreezeAtomic")))
}

func TestRevertBytes(t *testing.T) {
	b := New("abc").Bytes()
	assert.Equal(t, 4+32+32+32, len(b))
	assert.Equal(t, "08c379a0", hex.EncodeToString(b[:4]))
	assert.Equal(t, byte(0x20), b[35])
	assert.Equal(t, byte(3), b[67])
	assert.Equal(t, "abc", string(b[68:71]))

	var nilErr *ErrRevert
	assert.Nil(t, nilErr.Bytes())
}
