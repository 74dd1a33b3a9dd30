// Package validation holds pure format checks for user-supplied fields.
// Validators never touch storage and never normalize their input.
package validation

import "regexp"

var (
	// Conventional local@domain.tld shape; TLD between 2 and 4 characters.
	emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w\-]+\.)+[\w\-]{2,4}$`)

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,10}$`)
)

// Result is the outcome of a single field check. Message is fixed text
// suitable for returning to the user verbatim.
type Result struct {
	Valid   bool
	Message string
}

// Password checks password strength: at least 6 characters.
func Password(password string) Result {
	return Result{
		Valid:   len(password) >= 6,
		Message: "Passwords must be at least 6 characters long",
	}
}

// Email checks that the address has a conventional shape.
func Email(email string) Result {
	return Result{
		Valid:   emailPattern.MatchString(email),
		Message: "Invalid email",
	}
}

// Username checks for 1-10 characters from [A-Za-z0-9_].
func Username(username string) Result {
	return Result{
		Valid:   usernamePattern.MatchString(username),
		Message: "Invalid username",
	}
}
