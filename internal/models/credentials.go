package models

// Credentials holds a principal's stored password hash and, until the record
// is next written, the plaintext that is meant to replace it. Only the hash is
// persisted; the plaintext never leaves the process.
type Credentials struct {
	Password string `bson:"password" json:"-"`

	pending *string
}

// SetPassword marks the password as modified. The store hashes it on write.
func (c *Credentials) SetPassword(plain string) {
	c.pending = &plain
}

// PendingPassword returns the plaintext set since the last write, if any.
func (c *Credentials) PendingPassword() (string, bool) {
	if c.pending == nil {
		return "", false
	}
	return *c.pending, true
}

// SetPasswordHash stores hash and clears the pending plaintext.
func (c *Credentials) SetPasswordHash(hash string) {
	c.Password = hash
	c.pending = nil
}

func (c *Credentials) PasswordHash() string {
	return c.Password
}

func (c *Credentials) validatePassword() []FieldError {
	plain, ok := c.PendingPassword()
	switch {
	case !ok && c.Password == "":
		return []FieldError{{Field: "password", Message: "Password is required"}}
	case ok && len(plain) < MinPasswordLength:
		return []FieldError{{Field: "password", Message: "Password must be at least 8 characters"}}
	case ok && len(plain) > MaxPasswordBytes:
		return []FieldError{{Field: "password", Message: "Password must be at most 72 bytes"}}
	}
	return nil
}

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)
