package league

import "fmt"

// League is a competition track a team can enter. The catalog is static
// reference data seeded at startup.
type League struct {
	ID   string
	Name string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
