package types

// Payload is the notification body handed to the push transport.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}
