package gmail

// Message is the normalized representation of one fetched email. Header
// fields are empty strings when the corresponding header is absent.
type Message struct {
	ID      string
	From    string
	Subject string
	Date    string
	Body    string // plain text, markup stripped for HTML-only messages
}
