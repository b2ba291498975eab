// Package shortlink holds the data model shared by the client coordinators:
// link records, request and response payloads, and the candidate slug rules
// applied at the edit boundary.
package shortlink
