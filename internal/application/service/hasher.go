package service

// PasswordHasher is a one-way hash with a constant-time compare.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}
