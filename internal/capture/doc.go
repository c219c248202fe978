// Package capture fetches a Luma calendar page and records the calendar API
// responses behind it.
//
// The hosted page loads its event list by calling a paginated calendar items
// API while the visitor scrolls. Rather than driving a browser, the capturer
// reads the calendar's API identifier out of the page's embedded bootstrap
// JSON and walks the same API directly with cursor pagination, retrying
// transient failures with exponential backoff. The raw responses are kept so
// they can be persisted as a debugging artifact.
package capture
