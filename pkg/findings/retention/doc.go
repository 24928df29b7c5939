// Package retention prunes stored lint runs by age and by count.
//
//	findings:
//	  retention:
//	    days: 30
//	    max_runs: 500
//	    prune_schedule: "0 3 * * *"
//	    archive_before_delete: true
//	    archive_path: data/archives
//
// Age pruning deletes runs started before now minus Days. Count pruning then
// deletes the oldest runs beyond MaxRuns. With ArchiveBeforeDelete, the
// findings of pruned runs are exported to a JSON file first.
//
// The Scheduler drives Pruner.Prune from a cron expression in watch mode;
// `strictvalue findings prune` calls Prune directly.
package retention
