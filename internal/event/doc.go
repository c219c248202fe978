// Package event defines the extracted event record and the extraction logic
// that turns captured calendar API responses into records.
//
// The calendar API nests event objects at varying depths, so extraction walks
// decoded JSON for any object with an "event" key rather than assuming a
// fixed response shape. Field access is tolerant throughout: absent or
// wrongly-typed values produce zero/nil fields, never errors.
package event
