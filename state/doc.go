// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the persistent storage of built-in contracts.
//
// Every contract owns a storage space addressed by 32 bytes keys. Values are raw
// rlp encoded bytes. Changes are kept in a revision stack until staged, so that a
// failing operation can be reverted to its checkpoint without touching the
// underlying kv store.
package state
