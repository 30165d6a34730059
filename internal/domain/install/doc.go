// Package install contains the core domain types of the installer flow.
//
// It defines the flow Step, the yes/no Answer given at the dependency prompt,
// the Plan that fixes every destination path of a run, and the version
// Marker downloaded next to the companion executable.
package install
