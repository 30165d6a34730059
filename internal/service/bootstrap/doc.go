// Package bootstrap runs the installer flow.
//
// The flow checks for the required runtime, offers to install it through the
// package manager, and otherwise downloads the companion executable and its
// version marker into a user-chosen directory and launches it. Every platform
// interaction goes through an injected capability so the flow is testable.
package bootstrap
