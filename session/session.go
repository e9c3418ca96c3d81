package session

import (
	"io"
	"time"

	"github.com/aluiziolira/book-insights/export"
	"github.com/google/uuid"
)

// Session owns the result set and search query of one user session.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Results   *ResultSet

	query string
}

// New starts a session with an empty result set.
func New() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Results:   NewResultSet(),
	}
}

// SetQuery stores the title search used by View and Export.
func (s *Session) SetQuery(query string) {
	s.query = query
}

// Query returns the current title search.
func (s *Session) Query() string {
	return s.query
}

// View returns the currently filtered records.
func (s *Session) View() View {
	return s.Results.Filter(s.query)
}

// Export writes the filtered view, not the full set.
func (s *Session) Export(w io.Writer, format export.Format) error {
	return s.View().Export(w, format)
}

// Reset clears the results and the search query.
func (s *Session) Reset() {
	s.Results.Clear()
	s.query = ""
}
