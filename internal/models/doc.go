// Package models defines the core domain models for the invoicer.
//
// # Models
//
//   - Invoice: a numbered (or draft) bill sent to one client
//   - LineItem: one billable session on an invoice
//   - Expense: a dated, categorized business expense
//   - Client: an entry in the client directory, keyed by email
//   - Profile: the issuer's business details and tax configuration
//   - User: a registered account (hosted mode only)
//   - GmailToken: the stored OAuth token used to send invoices by email
//
// # Design Principles
//
//  1. **Tenant scoping**: every record belongs to exactly one account; stores
//     receive the account ID explicitly instead of reading it from the record.
//  2. **Snapshots over references**: an invoice copies the client's name and
//     email and the profile's tax settings at issuance. Later edits to either
//     never change an issued invoice.
//  3. **Versioned records**: invoices carry a schema version and Normalize
//     fills in defaults for fields that older records lack.
//  4. **Unrounded money**: amounts are float64 values exactly as computed;
//     rounding to cents happens only when formatting for display.
package models
