// Package convert turns a Stata dta extract into the CSV household table the
// poverty-rate run reads.
package convert
