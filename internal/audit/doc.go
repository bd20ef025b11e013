// Package audit records the share grants and node requests built by the
// CLI.
//
// Building a grant re-encrypts every key below a folder, so each one is
// written to a local audit trail stored as JSON Lines at:
//
//	<data dir>/nodekeys/audit.jsonl
//
// Each entry carries a timestamp, a uuid, the local user, the session id
// whose keys were used and operation details such as the shared node and
// the number of keys in the grant. No key material is ever logged.
//
// Audit logging is best-effort. If writing fails the operation continues.
// Malformed lines are skipped when reading.
package audit
