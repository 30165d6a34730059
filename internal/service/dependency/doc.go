// Package dependency detects the runtime required by the companion executable
// and installs it through the host package manager.
package dependency
