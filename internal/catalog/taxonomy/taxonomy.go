package taxonomy

// Genre is a browsable content tag applied to manga (e.g. "Action", "Isekai").
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category is the coarse editorial shelf a manga belongs to. Unlike genres,
// a manga has exactly one category. Local fields carry the translated
// storefront copy.
type Category struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	TitleLocal       *string `json:"title_local"`
	DescriptionLocal *string `json:"description_local"`
}
