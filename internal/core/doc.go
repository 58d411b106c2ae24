// Package core provides the business logic of the MSE decision registry.
//
// This package ties the record normalizer, the stores and the report
// assembler together independent of any transport. It is used by the web
// handlers, the msectl command and tests without modification.
//
// # Architecture
//
//   - Stores: [RecordStore] and [CredentialStore] are implemented by the
//     postgres and memory packages.
//   - Service: the entry point for saving, listing, deleting and exporting
//     records and for unit credentials.
//   - Export limiter: bounds how many workbooks are built at once.
//   - Snapshot scheduler: periodically archives the consolidated workbook.
//
// # Saving a record
//
//	rec, err := svc.SaveRecord(ctx, unit.NewBureau(3), payload, nil)
//	if record.IsValidation(err) {
//	    // caller-fixable, report ve.Field and ve.Value
//	}
//
// # Ownership
//
// A unit other than the oversight unit can only read, update and delete its
// own records. A foreign record looks exactly like a missing one
// ([record.ErrNotFound]).
//
// # Errors
//
// [MapError] turns any error returned here into a [UserMessage] carrying a
// support code. Typed errors are matched first, then message patterns.
package core
