/*
Package cohosting-sheets keeps a set of Google Sheets worksheets in sync with the reservations of one or more
Airbnb host accounts.

cohosting-sheets can be used from the command line but is really intended to be run from a cron job. Each
configured worksheet is fed by the accounts of its cohosts: the current reservations are merged with the rows
already in the worksheet (manually entered rows and extra columns are kept) and the worksheet is rewritten in
check-in order.

cohosting-sheets supports the following commands:

  - sync, to update every configured worksheet from the reservations API
  - reservations, to list the current reservations for a single account
  - get, to download a worksheet as a TSV file
  - put, to restore a worksheet from a TSV file
*/
package sheets
