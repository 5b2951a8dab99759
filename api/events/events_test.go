// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/api/events"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	builtinevents "github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/logdb"
)

const logsLimit = 5

var (
	alice = awc.BytesToAddress([]byte("alice"))
	bob   = awc.BytesToAddress([]byte("bob"))
	ts    *httptest.Server
)

func TestEvents(t *testing.T) {
	db := initEventServer(t)
	defer ts.Close()
	defer db.Close()

	testEventsByName(t)
	testEventsByAccountAndName(t)
	testEventsByRange(t)
	testEventsLimits(t)
	testInvalidFilters(t)
}

func initEventServer(t *testing.T) *logdb.LogDB {
	db, err := logdb.NewMem()
	require.NoError(t, err)

	evs := make([]*builtinevents.Event, 0, 10)
	for i := range 10 {
		user := alice
		if i%2 == 1 {
			user = bob
		}
		name := builtinevents.Deposit
		if i%3 == 2 {
			name = builtinevents.Claim
		}
		evs = append(evs, &builtinevents.Event{
			Contract:  builtin.Staker,
			Name:      name,
			Account:   user,
			Amount:    big.NewInt(int64(i) * 1e8),
			Timestamp: 1000 + uint64(i)*10,
		})
	}
	require.NoError(t, db.Insert(evs))

	router := mux.NewRouter()
	events.New(db, logsLimit).Mount(router, "/logs/event")
	ts = httptest.NewServer(router)
	return db
}

func filterEvents(t *testing.T, filter any) ([]*events.FilteredEvent, int) {
	data, err := json.Marshal(filter)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/logs/event", "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode
	}
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	return fes, res.StatusCode
}

func ptr[T any](v T) *T {
	return &v
}

func testEventsByName(t *testing.T) {
	fes, status := filterEvents(t, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Name: ptr(builtinevents.Claim)}},
		Order:       logdb.DESC,
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fes, 3)
	assert.Equal(t, []uint64{9, 6, 3}, []uint64{fes[0].Seq, fes[1].Seq, fes[2].Seq})
	for _, fe := range fes {
		assert.Equal(t, builtinevents.Claim, fe.Name)
		assert.Equal(t, builtinevents.Topic(builtinevents.Claim), *fe.Topic)
		assert.Equal(t, builtin.Staker, fe.Contract)
	}
	assert.Equal(t, big.NewInt(8e8), (*big.Int)(fes[0].Amount))

	topic := builtinevents.Topic(builtinevents.Claim)
	byTopic, status := filterEvents(t, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Topic: &topic}},
		Order:       logdb.DESC,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fes, byTopic)
}

func testEventsByAccountAndName(t *testing.T) {
	fes, status := filterEvents(t, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Account: &bob, Name: ptr(builtinevents.Deposit)}},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fes, 4)
	for _, fe := range fes {
		assert.Equal(t, bob, fe.Account)
		assert.Equal(t, builtinevents.Deposit, fe.Name)
	}
	assert.Equal(t, uint64(1010), fes[0].Timestamp)
}

func testEventsByRange(t *testing.T) {
	fes, status := filterEvents(t, &events.EventFilter{
		Range: &events.Range{From: ptr(uint64(1050)), To: ptr(uint64(1070))},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fes, 3)
	assert.Equal(t, uint64(1050), fes[0].Timestamp)
	assert.Equal(t, uint64(1070), fes[2].Timestamp)

	fes, status = filterEvents(t, &events.EventFilter{
		Range: &events.Range{From: ptr(uint64(1060))},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, fes, 4)
}

func testEventsLimits(t *testing.T) {
	// more matches than the limit without pagination
	_, status := filterEvents(t, &events.EventFilter{})
	assert.Equal(t, http.StatusForbidden, status)

	_, status = filterEvents(t, &events.EventFilter{Options: &events.Options{Limit: logsLimit + 1}})
	assert.Equal(t, http.StatusForbidden, status)

	fes, status := filterEvents(t, &events.EventFilter{Options: &events.Options{Offset: 8, Limit: logsLimit}})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fes, 2)
	assert.Equal(t, uint64(9), fes[0].Seq)
}

func testInvalidFilters(t *testing.T) {
	_, status := filterEvents(t, map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = filterEvents(t, map[string]any{"order": "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = filterEvents(t, &events.EventFilter{Range: &events.Range{From: ptr(uint64(10)), To: ptr(uint64(5))}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = filterEvents(t, map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, status)
}
