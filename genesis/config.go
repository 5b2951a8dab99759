// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/builtin/token"
)

// Config is the user defined deployment.
type Config struct {
	Name            string                `yaml:"name"`
	Token           TokenInfo             `yaml:"token"`
	Operator        awc.Address           `yaml:"operator"`
	RewardPercent   uint64                `yaml:"rewardPercent"` // annual, in basis points
	MinStakeAmount  *math.HexOrDecimal256 `yaml:"minStakeAmount,omitempty"`
	CooldownPeriod  uint64                `yaml:"cooldownPeriod,omitempty"` // seconds
	TreasuryFunding *math.HexOrDecimal256 `yaml:"treasuryFunding"`
	Accounts        []Account             `yaml:"accounts"`
}

// TokenInfo is the metadata of the stake token.
type TokenInfo struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

// Account is an initial token holder.
type Account struct {
	Address awc.Address           `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// LoadConfig reads a yaml deployment config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse genesis config")
	}
	return &cfg, nil
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

func (cfg *Config) validate() error {
	if cfg.Operator.IsZero() {
		return errors.New("operator must be set")
	}
	if cfg.Token.Symbol == "" {
		return errors.New("token symbol must be set")
	}
	if cfg.RewardPercent > awc.MaxRewardBasisPoints {
		return errors.Errorf("rewardPercent %d above %d basis points", cfg.RewardPercent, awc.MaxRewardBasisPoints)
	}
	if v := toBig(cfg.MinStakeAmount); v != nil && v.Sign() < 0 {
		return errors.New("minStakeAmount must not be negative")
	}
	if v := toBig(cfg.TreasuryFunding); v != nil && v.Sign() < 0 {
		return errors.New("treasuryFunding must not be negative")
	}
	for _, a := range cfg.Accounts {
		if a.Balance == nil {
			return errors.Errorf("%s: balance must be set", a.Address)
		}
		if toBig(a.Balance).Sign() < 1 {
			return errors.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
	}
	return nil
}

// NewFromConfig create genesis from a deployment config.
func NewFromConfig(cfg *Config) (*Genesis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "custom"
	}

	builder := new(Builder).
		Deploy(func(c *builtin.Contracts) error {
			return c.Token.Initialize(&token.Info{
				Name:     cfg.Token.Name,
				Symbol:   cfg.Token.Symbol,
				Decimals: cfg.Token.Decimals,
			})
		}).
		Deploy(func(c *builtin.Contracts) error {
			for _, a := range cfg.Accounts {
				if err := c.Token.Mint(a.Address, toBig(a.Balance)); err != nil {
					return err
				}
			}
			if funding := toBig(cfg.TreasuryFunding); funding != nil {
				return c.Token.Mint(builtin.Treasury, funding)
			}
			return nil
		}).
		Deploy(func(c *builtin.Contracts) error {
			return grantRoles(c, cfg.Operator)
		}).
		Deploy(func(c *builtin.Contracts) error {
			if v := toBig(cfg.MinStakeAmount); v != nil {
				if err := c.Params.Set(awc.KeyMinStakeAmount, v); err != nil {
					return err
				}
			}
			if cfg.CooldownPeriod > 0 {
				if err := c.Params.Set(awc.KeyCooldownPeriod, new(big.Int).SetUint64(cfg.CooldownPeriod)); err != nil {
					return err
				}
			}
			return nil
		}).
		Deploy(func(c *builtin.Contracts) error {
			if err := c.Treasury.Initialize(builtin.Token); err != nil {
				return err
			}
			return c.Staker.Initialize(builtin.Token, cfg.RewardPercent, builtin.Treasury)
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name}, nil
}

// grantRoles gives the operator admin and operator roles, and lets both the
// operator and the staking engine draw from the treasury.
func grantRoles(c *builtin.Contracts, operator awc.Address) error {
	grants := []struct {
		role   awc.Bytes32
		member awc.Address
	}{
		{awc.RoleAdmin, operator},
		{awc.RoleOperator, operator},
		{awc.RoleWithdraw, operator},
		{awc.RoleWithdraw, builtin.Staker},
	}
	for _, g := range grants {
		if _, err := c.Authority.Grant(g.role, g.member); err != nil {
			return err
		}
	}
	return nil
}
