package domain

// Book is a single title known to the content API.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn,omitempty"`
	Description   string   `json:"description,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	PublishedYear int      `json:"publishedYear,omitempty"`
	CreatedAt     Time     `json:"createdAt"`
	UpdatedAt     Time     `json:"updatedAt"`
}

// Summary is the generated summary for one book.
type Summary struct {
	ID        string           `json:"id"`
	BookID    string           `json:"bookId"`
	Overview  string           `json:"overview"`
	KeyPoints []string         `json:"keyPoints,omitempty"`
	Chapters  []ChapterSummary `json:"chapters,omitempty"`
	CreatedAt Time             `json:"createdAt"`
	UpdatedAt Time             `json:"updatedAt"`
}

// ChapterSummary is one chapter entry inside a Summary.
type ChapterSummary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Pagination describes the page window of a search response.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Results    []Book     `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// StreamEventType discriminates chat stream frames.
type StreamEventType string

const (
	StreamChunk    StreamEventType = "chunk"
	StreamComplete StreamEventType = "complete"
	StreamError    StreamEventType = "error"
)

// StreamEvent is one decoded SSE frame from the chat endpoint.
type StreamEvent struct {
	Type    StreamEventType `json:"type"`
	Content string          `json:"content"`
	Error   string          `json:"error,omitempty"`
}
