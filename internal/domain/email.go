package domain

// Email is a delivery-ready message with both HTML and plain-text bodies.
// The plain-text body carries the same semantic content for clients that
// cannot render HTML.
type Email struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
