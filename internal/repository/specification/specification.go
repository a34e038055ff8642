package specification

import "gorm.io/gorm"

// Specification is a composable query constraint. Repositories fold any number
// of them over a base query, so call sites state filters declaratively.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
