// Package launch opens the installed companion executable with the operating
// system's default handler and guards against replacing a running copy of it.
package launch
