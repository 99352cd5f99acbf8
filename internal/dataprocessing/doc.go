// Package dataprocessing turns the wide regional tax table into the long
// (entity, year, category, value) table and derives everything the dashboard
// shows from it.
//
// # Pipeline
//
//	RawTable → Reshape → *domain.Table → Select / CalculateDeltas → charts
//
// ParseNumber and SplitLabel are the leaves: the first turns "1,234,567" into
// 1234567, the second turns "2019년_금액" into (2019, amount). Reshape applies
// both to every cell, drops the total row and checks that the result holds
// exactly entities × labels rows.
//
// # Usage
//
//	table, err := dataprocessing.Reshape(raw, dataprocessing.DefaultReshapeOptions())
//	if err != nil {
//	    return err
//	}
//	deltas := dataprocessing.CalculateDeltas(table, 2019, domain.CategoryAmount)
//	migration := dataprocessing.PartitionMigration(deltas, 500)
//
// # Errors
//
// Load-time failures are typed: *ParseError, *FormatError and *ReshapeError,
// matching ErrParse, ErrFormat and ErrReshape with errors.Is. Query-time
// functions never fail; an empty result is flagged with NoData.
//
// Every function here is pure over an immutable table, so results may be
// computed concurrently without locking.
package dataprocessing
