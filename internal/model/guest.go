package model

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Guest is a hotel customer.
type Guest struct {
	Number    int    `json:"number"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName returns "First LAST".
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + strings.ToUpper(g.LastName))
}

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

func (g Guest) String() string {
	return fmt.Sprintf("Guest #%d - %s - email: %s - phone: %s", g.Number, g.FullName(), g.Email, g.Phone)
}
