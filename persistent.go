package custody

// Persistent is a model that can be stored as bytes and loaded back.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Validater is implemented by values that can check their own state.
type Validater interface {
	Validate() error
}
