package model

// Neighborhood is one of the NYC neighborhoods users can pick from.
type Neighborhood struct {
	Slug    string `json:"slug"`
	Borough string `json:"borough"`
	Label   string `json:"label"`
}

// Neighborhoods lists the neighborhoods accepted on profiles.
var Neighborhoods = []Neighborhood{ //nolint:gochecknoglobals // fixed lookup table
	{Slug: "upper-east-side", Borough: "Manhattan", Label: "Upper East Side"},
	{Slug: "upper-west-side", Borough: "Manhattan", Label: "Upper West Side"},
	{Slug: "chelsea", Borough: "Manhattan", Label: "Chelsea"},
	{Slug: "east-village", Borough: "Manhattan", Label: "East Village"},
	{Slug: "west-village", Borough: "Manhattan", Label: "West Village"},
	{Slug: "williamsburg", Borough: "Brooklyn", Label: "Williamsburg"},
	{Slug: "bushwick", Borough: "Brooklyn", Label: "Bushwick"},
	{Slug: "astoria", Borough: "Queens", Label: "Astoria"},
	{Slug: "long-island-city", Borough: "Queens", Label: "Long Island City"},
}

// KnownNeighborhood reports whether slug is in Neighborhoods.
func KnownNeighborhood(slug string) bool {
	for _, n := range Neighborhoods {
		if n.Slug == slug {
			return true
		}
	}
	return false
}
