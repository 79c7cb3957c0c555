package domain

type Product struct {
	ID          string
	Name        string
	Category    string
	Price       Money
	Rating      float64
	Image       string
	Description string
	InStock     bool
}
