// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for staking events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	contract blob(20),
	name text,
	topic blob(32),
	account blob(20),
	amount blob,
	data integer,
	timestamp integer
);

CREATE INDEX if not exists topicIndex on event(topic);
CREATE INDEX if not exists accountIndex on event(account);
CREATE INDEX if not exists timestampIndex on event(timestamp);
`
