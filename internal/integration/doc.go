// Package integration runs the installer flow against a local HTTP release server.
package integration
