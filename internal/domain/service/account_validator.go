package service

// AccountValidator is the identity and password policy gating every account mutation.
// Implementations must be total: empty input yields false, never a panic.
type AccountValidator interface {
	IsValidName(name string) bool
	IsValidEmail(email string) bool
	IsValidPassword(password string) bool
}
