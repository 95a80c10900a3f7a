// Package dataprocessing profiles tables and applies the cleaning operations.
//
// # Operations
//
// Four operations are provided, each a pure function from one table to a new
// table:
//
//	RemoveMissing                  drop rows with any null cell
//	HandleMissing                  impute nulls (interpolation or mode)
//	RemoveDuplicates               drop rows equal to an earlier row
//	HandleMissingRemoveDuplicates  impute, then de-duplicate
//
// Cleaner dispatches on a domain.Operation and reports CleaningStatistics:
//
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultOptions())
//	cleaned, stats, err := cleaner.Clean(domain.OpHandleMissing, table)
//
// # Imputation
//
// Numeric columns (int64, float64) are filled by linear interpolation over
// row positions. Nulls before the first or after the last known value are
// governed by EdgePolicy; the default EdgeNearest copies the nearest known
// value. Text columns are filled with their mode, ties broken by the
// smallest value under Cell.Compare. Columns with no known value are left
// unchanged.
//
// # Profiling
//
//	profile := dataprocessing.NewProfiler(logger, dataprocessing.ProfilerConfig{}).Profile(table)
//	fmt.Print(profile.Summary)
//
// Duplicate detection treats null as equal to null and 1 as equal to 1.0.
package dataprocessing
