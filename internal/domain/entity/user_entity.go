package entity

// User is the caller on whose behalf a use case runs.
// Identity is resolved by the transport; the domain only compares IDs.
type User struct {
	ID    string
	Email string
}
