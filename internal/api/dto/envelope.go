package dto

// Envelope wraps every JSON body the API returns.
type Envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Errors  map[string]any `json:"errors,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success builds a success envelope.
func Success(message string, data any) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds an error envelope with optional field details.
func Failure(message string, details map[string]any) Envelope {
	return Envelope{Status: StatusError, Message: message, Errors: details}
}

// Paginated is one page of a listing. From and To are 1-based positions of
// the first and last item, null for an empty page.
type Paginated[T any] struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
	Data        []T  `json:"data"`
}

// NewPaginated fills the page metadata for items.
func NewPaginated[T any](items []T, page, perPage, total, lastPage int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	p := Paginated[T]{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
		Data:        items,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From, p.To = &from, &to
	}
	return p
}
