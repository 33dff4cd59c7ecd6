package entity

import (
	"strconv"
	"strings"
)

// PassengerCounts holds the number of travellers per fare type
type PassengerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Babies   int `json:"babies"`
}

// DefaultPassengerCounts is one adult travelling alone
func DefaultPassengerCounts() PassengerCounts {
	return PassengerCounts{Adults: 1}
}

// Normalize clamps adults to at least one and the other counts to at least zero
func (p PassengerCounts) Normalize() PassengerCounts {
	if p.Adults < 1 {
		p.Adults = 1
	}
	if p.Children < 0 {
		p.Children = 0
	}
	if p.Babies < 0 {
		p.Babies = 0
	}
	return p
}

// Total returns the number of travellers
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Babies
}

// ParsePassengerCounts converts raw form values, falling back to the minimum
// allowed value for anything that is not a valid count
func ParsePassengerCounts(adults, children, babies string) PassengerCounts {
	return PassengerCounts{
		Adults:   parseCount(adults, 1),
		Children: parseCount(children, 0),
		Babies:   parseCount(babies, 0),
	}.Normalize()
}

func parseCount(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < fallback || n == 0 {
		return fallback
	}
	return n
}
