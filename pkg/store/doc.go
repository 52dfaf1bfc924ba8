// Package store holds the embedded concept and relationship records
// that back the fallback query path. Stores are private to one process;
// writes are mutex-guarded so agents can query concurrently.
package store
