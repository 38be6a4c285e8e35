// Package sheets provides spreadsheet sources: the Google Sheets API,
// local .xlsx workbooks, and an in-memory source for tests.
//
// Every source returns worksheets in the spreadsheet's own tab order and
// renders every cell as a string, leaving interpretation to the normalizer.
package sheets
