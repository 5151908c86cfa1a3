package apitree

import "strings"

// Product is a device model an entity applies to.
type Product string

// Products is the closed set of models named in "Applies to:" lists.
var Products = []Product{
	"Board",
	"Board Pro",
	"Board Pro G2",
	"Codec EQ",
	"Codec Plus",
	"Codec Pro",
	"Codec Pro G2",
	"Desk",
	"Desk Mini",
	"Desk Pro",
	"Room 55",
	"Room 55 Dual",
	"Room 70",
	"Room 70 G2",
	"Room 70 Panorama",
	"Room Bar",
	"Room Bar Pro",
	"Room Kit",
	"Room Kit EQ",
	"Room Kit EQX",
	"Room Kit Mini",
	"Room Kit Pro",
	"Room Panorama",
	"Room USB",
	"Navigator",
}

var productIndex = func() map[string]Product {
	m := make(map[string]Product, len(Products))
	for _, p := range Products {
		m[string(p)] = p
	}
	return m
}()

// LookupProduct returns the product named exactly s.
func LookupProduct(s string) (Product, bool) {
	p, ok := productIndex[s]
	return p, ok
}

// IsProductPrefix reports whether s followed by a space starts a longer
// product name, e.g. "Room" or "Room Kit".
func IsProductPrefix(s string) bool {
	prefix := s + " "
	for _, p := range Products {
		if strings.HasPrefix(string(p), prefix) {
			return true
		}
	}
	return false
}
