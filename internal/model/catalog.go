package model

type BookRef struct {
	ID    int    `json:"book_id"`
	Title string `json:"title"`
}

type AuthorRef struct {
	ID        int    `json:"author_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type PublisherRef struct {
	ID   int    `json:"publisher_id"`
	Name string `json:"name"`
}

type Author struct {
	ID        int       `json:"author_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthYear *int      `json:"birth_year"`
	Books     []BookRef `json:"books"`
}

type Publisher struct {
	ID           int       `json:"publisher_id"`
	Name         string    `json:"name"`
	Headquarters *string   `json:"headquarters"`
	Books        []BookRef `json:"books"`
}

// Book.Price is kept as a decimal string with two places, e.g. "12.50".
type Book struct {
	ID              int           `json:"book_id"`
	Title           string        `json:"title"`
	PublicationYear *int          `json:"publication_year"`
	ISBN            *string       `json:"isbn"`
	PageCount       *int          `json:"page_count"`
	Price           *string       `json:"price"`
	PublisherID     *int          `json:"-"`
	Publisher       *PublisherRef `json:"publisher"`
	Authors         []AuthorRef   `json:"authors"`
}

type AuthorPatch struct {
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
	BirthYear Optional[int]    `json:"birth_year"`
}

func (p AuthorPatch) Apply(a *Author) {
	if v, ok := p.FirstName.Value(); ok {
		a.FirstName = v
	}
	if v, ok := p.LastName.Value(); ok {
		a.LastName = v
	}
	if v, ok := p.BirthYear.Ptr(); ok {
		a.BirthYear = v
	}
}

type PublisherPatch struct {
	Name         Optional[string] `json:"name"`
	Headquarters Optional[string] `json:"headquarters"`
}

func (p PublisherPatch) Apply(pub *Publisher) {
	if v, ok := p.Name.Value(); ok {
		pub.Name = v
	}
	if v, ok := p.Headquarters.Ptr(); ok {
		pub.Headquarters = v
	}
}

// BookPatch covers both create (every present field) and update. AuthorIDs
// replaces the whole author set when present; PublisherID null clears it.
type BookPatch struct {
	Title           Optional[string] `json:"title"`
	PublicationYear Optional[int]    `json:"publication_year"`
	ISBN            Optional[string] `json:"isbn"`
	PageCount       Optional[int]    `json:"page_count"`
	Price           Optional[Price]  `json:"price"`
	PublisherID     Optional[int]    `json:"publisher_id"`
	AuthorIDs       Optional[[]int]  `json:"author_ids"`
}

func (p BookPatch) Apply(b *Book) {
	if v, ok := p.Title.Value(); ok {
		b.Title = v
	}
	if v, ok := p.PublicationYear.Ptr(); ok {
		b.PublicationYear = v
	}
	if v, ok := p.ISBN.Ptr(); ok {
		b.ISBN = v
	}
	if v, ok := p.PageCount.Ptr(); ok {
		b.PageCount = v
	}
	if v, ok := p.Price.Ptr(); ok {
		b.Price = nil
		if v != nil {
			s := string(*v)
			b.Price = &s
		}
	}
	if v, ok := p.PublisherID.Ptr(); ok {
		b.PublisherID = v
		if v == nil {
			b.Publisher = nil
		}
	}
}
