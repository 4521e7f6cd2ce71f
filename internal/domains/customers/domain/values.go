package domain

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmptyName    = errors.New("customer name cannot be empty")
	ErrEmptyPhone   = errors.New("customer phone cannot be empty")
	ErrInvalidEmail = errors.New("customer email is not a valid address")
	ErrInvalidState = errors.New("address state must have at most two characters")
)

// Name is the customer's display name.
type Name struct {
	value string
}

func NewName(name string) (Name, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}, ErrEmptyName
	}
	return Name{value: name}, nil
}

func (n Name) String() string { return n.value }

func (n Name) IsZero() bool { return n.value == "" }

// Address is the customer's postal address.
type Address struct {
	street       string
	neighborhood string
	city         string
	number       string
	zipCode      string
	state        string
}

// NewAddress accepts any field empty but caps the state at two characters.
func NewAddress(street, neighborhood, city, number, zipCode, state string) (Address, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if len([]rune(state)) > 2 {
		return Address{}, ErrInvalidState
	}
	return Address{
		street:       strings.TrimSpace(street),
		neighborhood: strings.TrimSpace(neighborhood),
		city:         strings.TrimSpace(city),
		number:       strings.TrimSpace(number),
		zipCode:      strings.TrimSpace(zipCode),
		state:        state,
	}, nil
}

func (a Address) Street() string       { return a.street }
func (a Address) Neighborhood() string { return a.neighborhood }
func (a Address) City() string         { return a.city }
func (a Address) Number() string       { return a.number }
func (a Address) ZipCode() string      { return a.zipCode }
func (a Address) State() string        { return a.state }

func (a Address) String() string {
	parts := make([]string, 0, 4)
	if a.street != "" {
		line := a.street
		if a.number != "" {
			line += ", " + a.number
		}
		parts = append(parts, line)
	}
	if a.neighborhood != "" {
		parts = append(parts, a.neighborhood)
	}
	if a.city != "" {
		city := a.city
		if a.state != "" {
			city += "/" + a.state
		}
		parts = append(parts, city)
	}
	if a.zipCode != "" {
		parts = append(parts, a.zipCode)
	}
	return strings.Join(parts, " - ")
}

// Phone is a contact number kept as typed.
type Phone struct {
	value string
}

func NewPhone(number string) (Phone, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Phone{}, ErrEmptyPhone
	}
	return Phone{value: number}, nil
}

func (p Phone) String() string { return p.value }

func (p Phone) IsZero() bool { return p.value == "" }

// Email is an optional contact address.
type Email struct {
	value string
}

func NewEmail(address string) (Email, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Email{}, nil
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: strings.ToLower(address)}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }
