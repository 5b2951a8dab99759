// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schema records the storage layout version of a built-in contract
// and runs the additive migrations between versions.
package schema

import (
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	logger = log.WithContext("pkg", "schema")

	slotVersion = awc.BytesToBytes32([]byte("schema-version"))
)

// Step upgrades the storage from the version before To to To.
type Step struct {
	To      uint64
	Name    string
	Migrate func() error
}

// Schema binder of the schema version of one contract.
type Schema struct {
	addr    awc.Address
	version *solidity.Raw[uint64]
}

func New(addr awc.Address, state *state.State) *Schema {
	return &Schema{
		addr:    addr,
		version: solidity.NewRaw[uint64](solidity.NewContext(addr, state), slotVersion),
	}
}

// Version returns the current version, 0 if the contract was never initialized.
func (s *Schema) Version() (uint64, error) {
	return s.version.Get()
}

// SetVersion stamps the version, used when a contract is created at the latest layout.
func (s *Schema) SetVersion(v uint64) error {
	return s.version.Upsert(v)
}

// Migrate applies, in order, every step newer than the current version.
// Steps must be sorted by To, each one version after the other.
// It returns the version before and after migration.
func (s *Schema) Migrate(steps []Step) (from, to uint64, err error) {
	from, err = s.Version()
	if err != nil {
		return 0, 0, err
	}
	if from == 0 {
		return 0, 0, reverts.ErrNotInitialized
	}
	to = from
	for _, step := range steps {
		if step.To <= to {
			continue
		}
		if step.To != to+1 {
			return from, to, errors.Errorf("schema: missing migration to v%d", to+1)
		}
		logger.Info("migrating storage", "contract", s.addr, "from", to, "to", step.To, "step", step.Name)
		if err := step.Migrate(); err != nil {
			return from, to, errors.Wrapf(err, "migrate to v%d", step.To)
		}
		to = step.To
		if err := s.SetVersion(to); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
