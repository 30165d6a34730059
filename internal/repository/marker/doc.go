// Package marker implements persistence for the version marker file.
//
// The FileRepository loads and stores the plaintext marker that is published
// and downloaded next to the companion executable.
package marker
