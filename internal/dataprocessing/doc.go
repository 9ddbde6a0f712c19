// Package dataprocessing reads the household and poverty threshold tables
// from CSV or Excel files and hands them to the poverty package.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Table: reads a header row plus data rows from csv, txt, xlsx or xlsm
// 2. HouseholdLoader: maps configured columns onto household records
// 3. ReferenceLoader: detects long or wide layout and builds the threshold table
//
// # Usage
//
//	loader := dataprocessing.NewHouseholdLoader(dataprocessing.HouseholdColumns{
//	    Period: "year", FamilySize: "famsze", Children: "nchild",
//	    Income: "wly", PriceIndex: "cpi",
//	}, logger)
//	records, stats, err := loader.Load(ctx, "data/output.csv", "")
//
//	ref := dataprocessing.NewReferenceLoader(dataprocessing.ReferenceOptions{Shape: dataprocessing.ShapeAuto}, logger)
//	table, _, err := ref.Load(ctx, "data/poverty_thresholds_cleaned.csv")
//
// # Error Handling
//
// Unreadable files and missing columns fail with an invalid_input error.
// A household cell that does not parse becomes NaN so the record is
// excluded during classification instead of failing the load; only a
// period that cannot be read drops the row.
package dataprocessing
