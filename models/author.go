package models

type Author struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Biography   string `json:"biography,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	BooksCount  int    `json:"booksCount"`
}

type AuthorInput struct {
	Name        string `json:"name"`
	Biography   string `json:"biography"`
	BirthDate   string `json:"birthDate,omitempty"`
	Nationality string `json:"nationality"`
	ImageURL    string `json:"imageUrl"`
}

// AuthorFilter drives the admin author listing. Page is 1-based.
type AuthorFilter struct {
	Page        int
	Size        int
	Name        string
	Nationality string
	SortBy      string
	SortDir     string
}
