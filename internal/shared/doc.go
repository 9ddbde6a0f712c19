// Package shared holds code used across packages that belongs to no single
// layer of the poverty-rate pipeline.
//
// # Structure
//
// - testutil: capture of slog records and writers for the CSV and xlsx
// input fixtures used by the loader, app and cli tests
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helpers with no poverty-specific logic
//
// Example usage:
//
//	func TestRun(t *testing.T) {
//	    fx := testutil.NewDataFixtures(t)
//	    fx.WriteCSV("data/output.csv", testutil.HouseholdHeader, testutil.SampleHouseholds())
//	    logger, handler := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
