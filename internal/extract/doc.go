// Package extract turns parsed detail pages into structured refusal
// records.
//
// Two extractors cooperate: Detail reads the field rows of the
// details-marked table, and Charges reads the charges sub-table embedded in
// that table's last row, keyed by the sub-table's own header row. Both
// operate on read-only parsed trees and report markup that does not match
// the expected shape as a *ShapeError.
package extract
