// Package ledger persists pipeline run history in SQLite.
//
// Each `reelforge run` records one row in runs plus one row per scene in
// run_scenes, capturing how every scene resolved (mixed, passthrough, silent
// fallback, or dropped) and how the run ended. The store is the backing data
// for the status command; the pipeline itself never reads it back during a
// run. Schema changes bump schemaVersion and require clearing the database.
package ledger
