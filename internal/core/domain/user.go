package domain

import "time"

// Capabilities is the set of roles a user may take on a loan. Both may be
// held at once.
type Capabilities struct {
	CanBorrow bool
	CanLend   bool
}

// User is an account that can act as a borrower, a lender, or both.
type User struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	Email      string    `json:"email" bson:"email"`
	IsBorrower bool      `json:"isBorrower" bson:"is_borrower"`
	IsLender   bool      `json:"isLender" bson:"is_lender"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// Capabilities returns the roles held by u.
func (u *User) Capabilities() Capabilities {
	return Capabilities{CanBorrow: u.IsBorrower, CanLend: u.IsLender}
}

// SetCapabilities replaces the role flags of u.
func (u *User) SetCapabilities(c Capabilities) {
	u.IsBorrower = c.CanBorrow
	u.IsLender = c.CanLend
}
