// Package mask redacts sensitive user fields for unprivileged callers.
// Masking only shapes the outbound view and never touches stored values.
package mask

import "strings"

// Email masks the local part of an address, keeping its first and last
// character. Addresses without '@' or with a local part of two characters
// or fewer are fully redacted.
func Email(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***"
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

// CodiceFiscale keeps the first and last three characters with eight
// asterisks in between. Values shorter than six characters are fully
// redacted.
func CodiceFiscale(cf string) string {
	if len(cf) < 6 {
		return "********"
	}
	return cf[:3] + "********" + cf[len(cf)-3:]
}
