// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/kv"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	logger = log.WithContext("pkg", "genesis")

	metaBucket = kv.Bucket("m")
	genesisKey = []byte("genesis")
)

// Genesis to build the initial deployment.
type Genesis struct {
	builder *Builder
	id      awc.Bytes32
	name    string
}

// ID returns genesis ID.
func (g *Genesis) ID() awc.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Deploy opens the state in db, writing the genesis first if db is empty.
// A db holding another genesis is rejected.
func (g *Genesis) Deploy(db kv.Store) (*state.State, *builtin.Contracts, error) {
	meta := metaBucket.NewStore(db)
	stored, err := meta.Get(genesisKey)
	if err != nil && !meta.IsNotFound(err) {
		return nil, nil, errors.Wrap(err, "read genesis id")
	}

	st := state.New(db)
	if len(stored) > 0 {
		if !bytes.Equal(stored, g.id.Bytes()) {
			return nil, nil, errors.Errorf("genesis mismatch: stored %v, want %v", awc.BytesToBytes32(stored), g.id)
		}
		return st, builtin.New(st), nil
	}

	c, id, err := g.builder.Build(st)
	if err != nil {
		return nil, nil, err
	}
	if id != g.id {
		return nil, nil, errors.Errorf("genesis built with id %v, want %v", id, g.id)
	}
	if err := meta.Put(genesisKey, id.Bytes()); err != nil {
		return nil, nil, errors.Wrap(err, "write genesis id")
	}
	logger.Info("genesis deployed", "name", g.name, "id", id)
	return st, c, nil
}

// StoredID returns the genesis ID recorded in db, false if none.
func StoredID(db kv.Getter) (awc.Bytes32, bool, error) {
	stored, err := metaBucket.NewGetter(db).Get(genesisKey)
	if err != nil {
		if db.IsNotFound(err) {
			return awc.Bytes32{}, false, nil
		}
		return awc.Bytes32{}, false, err
	}
	return awc.BytesToBytes32(stored), true, nil
}
