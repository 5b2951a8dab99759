// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client for the staking node REST API.
package client

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/atomicwallet/awc-staking/api/accounts"
	"github.com/atomicwallet/awc-staking/api/events"
	"github.com/atomicwallet/awc-staking/api/staker"
	"github.com/atomicwallet/awc-staking/api/treasury"
	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
)

// Client talks to a staking node over HTTP.
type Client struct {
	url       string
	c         *http.Client
	genesisID atomic.Pointer[awc.Bytes32]
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// GenesisID returns the genesis ID reported by the node, fetching it if no
// response has been seen yet.
func (c *Client) GenesisID() (awc.Bytes32, error) {
	if id := c.genesisID.Load(); id != nil {
		return *id, nil
	}
	if _, err := c.StakerConfig(); err != nil {
		return awc.Bytes32{}, err
	}
	if id := c.genesisID.Load(); id != nil {
		return *id, nil
	}
	return awc.Bytes32{}, fmt.Errorf("genesis id not reported")
}

func get[T any](c *Client, path, what string) (*T, error) {
	body, err := c.httpGET(c.url + path)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve %s - %w", what, err)
	}
	var res T
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &res, nil
}

func post[T any](c *Client, path string, payload any, what string) (*T, error) {
	body, err := c.httpPOST(c.url+path, payload)
	if err != nil {
		return nil, fmt.Errorf("unable to request %s - %w", what, err)
	}
	var res T
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &res, nil
}

// Token retrieves the token metadata and supply.
func (c *Client) Token() (*accounts.Token, error) {
	return get[accounts.Token](c, "/accounts/token", "token")
}

// Account retrieves the token balance of addr.
func (c *Client) Account(addr awc.Address) (*accounts.Account, error) {
	return get[accounts.Account](c, "/accounts/"+addr.String(), "account")
}

func (c *Client) Allowance(owner, spender awc.Address) (*accounts.Allowance, error) {
	return get[accounts.Allowance](c, "/accounts/"+owner.String()+"/allowance/"+spender.String(), "allowance")
}

func (c *Client) Approve(owner, spender awc.Address, amount *big.Int) (*accounts.Allowance, error) {
	return post[accounts.Allowance](c, "/accounts/"+owner.String()+"/approve", &accounts.ApproveRequest{
		Spender: spender,
		Amount:  utils.NewAmount(amount),
	}, "approve")
}

func (c *Client) Transfer(from, to awc.Address, amount *big.Int) (*accounts.Account, error) {
	return post[accounts.Account](c, "/accounts/"+from.String()+"/transfer", &accounts.TransferRequest{
		To:     to,
		Amount: utils.NewAmount(amount),
	}, "transfer")
}

func (c *Client) Stake(user awc.Address, amount *big.Int) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/stake", &staker.AmountRequest{User: user, Amount: utils.NewAmount(amount)}, "stake")
}

func (c *Client) Unstake(user awc.Address, amount *big.Int) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/unstake", &staker.AmountRequest{User: user, Amount: utils.NewAmount(amount)}, "unstake")
}

func (c *Client) UnstakeAll(user awc.Address) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/unstake-all", &staker.UserRequest{User: user}, "unstake all")
}

func (c *Client) ClaimReward(user awc.Address) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/claim", &staker.UserRequest{User: user}, "claim")
}

func (c *Client) Restake(user awc.Address) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/restake", &staker.UserRequest{User: user}, "restake")
}

// Release withdraws the frozen principal of user once the cooldown has passed.
func (c *Client) Release(user awc.Address) (*staker.Receipt, error) {
	return post[staker.Receipt](c, "/staker/release", &staker.UserRequest{User: user}, "release")
}

func (c *Client) SetMinStakeAmount(caller awc.Address, amount *big.Int) (*staker.Config, error) {
	return post[staker.Config](c, "/staker/min-stake", &staker.MinStakeRequest{Caller: caller, Amount: utils.NewAmount(amount)}, "min stake change")
}

func (c *Client) SetRewardPercent(caller awc.Address, percentBasisPoints uint64) (*staker.Config, error) {
	return post[staker.Config](c, "/staker/reward-rate", &staker.RewardRateRequest{Caller: caller, PercentBasisPoints: percentBasisPoints}, "reward rate change")
}

func (c *Client) Migrate() (*staker.MigrateResult, error) {
	return post[staker.MigrateResult](c, "/staker/migrate", struct{}{}, "migrate")
}

// StakerAccount retrieves the staking position of addr with its pending reward.
func (c *Client) StakerAccount(addr awc.Address) (*staker.Account, error) {
	return get[staker.Account](c, "/staker/accounts/"+addr.String(), "staker account")
}

func (c *Client) StakerConfig() (*staker.Config, error) {
	return get[staker.Config](c, "/staker/config", "staker config")
}

func (c *Client) Stakers(offset, limit uint64) ([]awc.Address, error) {
	path := "/staker/stakers?offset=" + strconv.FormatUint(offset, 10) + "&limit=" + strconv.FormatUint(limit, 10)
	res, err := get[[]awc.Address](c, path, "stakers")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) Treasury() (*treasury.Pool, error) {
	return get[treasury.Pool](c, "/treasury", "treasury")
}

func (c *Client) Withdraw(caller, to awc.Address, amount *big.Int) (*treasury.Pool, error) {
	return post[treasury.Pool](c, "/treasury/withdraw", &treasury.WithdrawRequest{
		Caller: caller,
		To:     to,
		Amount: utils.NewAmount(amount),
	}, "withdraw")
}

// FilterEvents retrieves events matching the filter.
func (c *Client) FilterEvents(filter *events.EventFilter) ([]*events.FilteredEvent, error) {
	res, err := post[[]*events.FilteredEvent](c, "/logs/event", filter, "events")
	if err != nil {
		return nil, err
	}
	return *res, nil
}
