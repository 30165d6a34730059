// Package release prepares the files published for a new installer target.
//
// It validates the release version, checks the built executable is in place,
// and writes the plaintext version marker the installer downloads after the
// executable. Upload destinations are taken from the installer settings.
package release
