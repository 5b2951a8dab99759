// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/atomicwallet/awc-staking/genesis"
)

const testConfig = `
name: testnet
token:
  name: Atomic Wallet Coin
  symbol: AWC
  decimals: 8
operator: "0x000000000000000000000000000000000000abcd"
rewardPercent: 1000
treasuryFunding: "100000000000"
`

func newContext(t *testing.T, args map[string]string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String(configFlag.Name, "", "")
	set.String(dataDirFlag.Name, "", "")
	set.Bool(persistFlag.Name, false, "")
	set.Uint64(cacheFlag.Name, 128, "")
	for k, v := range args {
		require.NoError(t, set.Set(k, v))
	}
	return cli.NewContext(nil, set, nil)
}

func TestReadIntFromUInt64Flag(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = readIntFromUInt64Flag(uint64(math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	_, err = readIntFromUInt64Flag(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}

func TestSelectGenesis(t *testing.T) {
	gene, err := selectGenesis(newContext(t, nil))
	require.NoError(t, err)
	assert.Equal(t, genesis.NewDevnet().ID(), gene.ID())

	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	gene, err = selectGenesis(newContext(t, map[string]string{configFlag.Name: path}))
	require.NoError(t, err)
	assert.Equal(t, "testnet", gene.Name())
	assert.NotEqual(t, genesis.NewDevnet().ID(), gene.ID())

	_, err = selectGenesis(newContext(t, map[string]string{configFlag.Name: filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Error(t, err)
}

func TestOpenDatabases(t *testing.T) {
	gene := genesis.NewDevnet()

	mainDB, logDB, instanceDir, err := openDatabases(newContext(t, nil), gene)
	require.NoError(t, err)
	assert.Equal(t, "Memory", instanceDir)
	mainDB.Close()
	logDB.Close()

	dataDir := t.TempDir()
	ctx := newContext(t, map[string]string{dataDirFlag.Name: dataDir, persistFlag.Name: "true"})
	mainDB, logDB, instanceDir, err = openDatabases(ctx, gene)
	require.NoError(t, err)
	defer mainDB.Close()
	defer logDB.Close()
	assert.Equal(t, dataDir, filepath.Dir(instanceDir))
	assert.FileExists(t, filepath.Join(instanceDir, "logs.db"))
	assert.DirExists(t, filepath.Join(instanceDir, "main.db"))
}

func TestMakeInstanceDir_NoDataDir(t *testing.T) {
	_, err := makeInstanceDir(newContext(t, nil), genesis.NewDevnet())
	assert.Error(t, err)
}
