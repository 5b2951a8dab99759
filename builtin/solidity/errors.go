// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/pkg/errors"

// ErrUnderflow is returned when a subtraction would make a stored unsigned value negative.
var ErrUnderflow = errors.New("solidity: uint256 underflow")
