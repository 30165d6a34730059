// Package fetch downloads single files over HTTP into an existing directory.
//
// A transfer is bounded by a timeout, reports progress, and only returns once
// the body is fully written and atomically swapped into place.
package fetch
