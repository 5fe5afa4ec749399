// Package quoting builds POSIX shell command lines from literal fragments and
// interpolated values.
//
// QuoteText escapes a single argument so the shell evaluates it back to the
// original text, and CompileTemplate interleaves template fragments with
// quoted scalars and sequences so that callers never concatenate untrusted
// text into a command line by hand.
package quoting
