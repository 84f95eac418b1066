package models

// ContactInfo is the operator contact card shown after a booking is placed.
type ContactInfo struct {
	Phone     string `json:"phone"`
	Phone2    string `json:"phone2,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	UPI       string `json:"upi,omitempty"`
	Location  string `json:"location"`
	Owner     string `json:"owner,omitempty"`
}
