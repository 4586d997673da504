package geo

// Province and City are geography reference data with no business rules.

type Province struct {
	ID   string
	Name string
}

type City struct {
	ID         string
	ProvinceID string
	Name       string
}
