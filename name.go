package senml

import "regexp"

// RFC 8428 section 4.5.1: the concatenated name MUST consist only of
// characters out of the set "A"-"Z", "a"-"z", and "0"-"9", as well as
// "-", ":", ".", "/", and "_", and MUST start with an alphanumeric
// character.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-:._/]*$`)

// ValidName reports whether name satisfies the RFC 8428 name grammar.
// The empty string is not a valid name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
