package domain

type Product struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	BrandID *int   `json:"brand_id,omitempty"`
	Brand   *Brand `json:"brand,omitempty"`
}

type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
