package dtos

// Genre is the response shape of a genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateGenre is the POST /genres payload.
type CreateGenre struct {
	Name string `json:"name" validate:"required,max=30"`
}

// UpdateGenre is the PUT /genres/{id} payload.
type UpdateGenre struct {
	Name string `json:"name" validate:"required,max=30"`
}
