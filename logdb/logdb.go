// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/log"
)

var logger = log.WithContext("pkg", "logdb")

const (
	insertEventQuery = "INSERT INTO event(contract, name, topic, account, amount, data, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)"
	selectEventQuery = "SELECT seq, contract, name, topic, account, amount, data, timestamp FROM event WHERE 1"
)

// LogDB stores committed staking events in sqlite.
type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			_ = db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection to :memory: is a distinct database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Insert writes the events in one transaction, in order.
func (db *LogDB) Insert(evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	return db.execInTx(func(tx *sql.Tx) error {
		txStmt := tx.Stmt(stmt)
		defer txStmt.Close()

		for _, ev := range evs {
			e := newEvent(ev)
			if _, err := txStmt.Exec(
				e.Contract.Bytes(),
				e.Name,
				e.Topic.Bytes(),
				e.Account.Bytes(),
				e.Amount.Bytes(),
				int64(e.Data),
				int64(e.Timestamp),
			); err != nil {
				return err
			}
		}
		metricInsertedCount().Add(int64(len(evs)))
		return nil
	})
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// FilterEvents returns events matching the filter, all events for a nil filter.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEventQuery+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := selectEventQuery
	if filter.Range != nil {
		args = append(args, int64(filter.Range.From))
		stmt += " AND timestamp >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, int64(filter.Range.To))
			stmt += " AND timestamp <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Contract != nil {
			args = append(args, criteria.Contract.Bytes())
			stmt += " AND contract = ? "
		}
		if criteria.Topic != nil {
			args = append(args, criteria.Topic.Bytes())
			stmt += " AND topic = ? "
		}
		if criteria.Account != nil {
			args = append(args, criteria.Account.Bytes())
			stmt += " AND account = ? "
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, int64(filter.Options.Offset), int64(filter.Options.Limit))
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evs := make([]*Event, 0)
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			contract  []byte
			name      string
			topic     []byte
			account   []byte
			amount    []byte
			data      int64
			timestamp int64
		)
		if err := rows.Scan(
			&seq,
			&contract,
			&name,
			&topic,
			&account,
			&amount,
			&data,
			&timestamp,
		); err != nil {
			return nil, err
		}
		evs = append(evs, &Event{
			Seq:       uint64(seq),
			Contract:  awc.BytesToAddress(contract),
			Name:      name,
			Topic:     awc.BytesToBytes32(topic),
			Account:   awc.BytesToAddress(account),
			Amount:    new(big.Int).SetBytes(amount),
			Data:      uint64(data),
			Timestamp: uint64(timestamp),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}
