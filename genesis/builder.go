// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/lvldb"
	"github.com/atomicwallet/awc-staking/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	procs []func(c *builtin.Contracts) error
}

// Deploy add a deployment process run against the built-in contracts.
func (b *Builder) Deploy(proc func(c *builtin.Contracts) error) *Builder {
	b.procs = append(b.procs, proc)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (awc.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return awc.Bytes32{}, err
	}
	defer db.Close()

	_, id, err := b.Build(state.New(db))
	return id, err
}

// Build applies all processes to st and commits them.
// The ID is the digest of the committed change set.
func (b *Builder) Build(st *state.State) (c *builtin.Contracts, id awc.Bytes32, err error) {
	c = builtin.New(st)
	for i, proc := range b.procs {
		if err := proc(c); err != nil {
			return nil, awc.Bytes32{}, errors.Wrapf(err, "genesis step %d", i)
		}
	}
	// deployment is not observable as staking events
	c.Journal.Take()

	stage := st.Stage()
	id = stage.Hash()
	if err := stage.Commit(); err != nil {
		return nil, awc.Bytes32{}, err
	}
	return c, id, nil
}
