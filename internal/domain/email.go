package domain

// EmailMessage is a generic transactional email accepted by the send-email
// endpoint and handed to the SMTP dispatcher as-is.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}
