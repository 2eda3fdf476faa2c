package ports

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}
