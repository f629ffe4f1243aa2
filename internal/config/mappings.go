package config

import "retailclean/internal/schema"

// DefaultCategories returns the built-in category tables. Keys are the
// title-cased spellings produced by the string normalizer.
func DefaultCategories() []Category {
	return []Category{
		{
			Column: schema.City,
			Values: map[string]string{
				"Bangalore": "Bengaluru",
				"Banglore":  "Bengaluru",
				"B'lore":    "Bengaluru",
				"Hyderbad":  "Hyderabad",
			},
		},
		{
			Column: schema.Gender,
			Values: map[string]string{
				"Male":   "M",
				"M":      "M",
				"Female": "F",
				"F":      "F",
			},
			Default: "Unknown",
		},
		{
			Column: schema.MembershipLevel,
			Values: map[string]string{
				"Gold":     "Gold",
				"Silver":   "Silver",
				"Platinum": "Platinum",
				"Bronze":   "Bronze",
			},
			Default: "Basic",
		},
	}
}
