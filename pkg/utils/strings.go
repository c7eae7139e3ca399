package utils

// DeriveUserName builds a default display name from the local part of an
// email address, capped at 10 characters.
func DeriveUserName(email string) string {
	name := email
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			name = email[:i]
			break
		}
	}
	if len(name) > 10 {
		name = name[:10]
	}
	return name
}
