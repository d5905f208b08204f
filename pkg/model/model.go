package model

// DateLayout is the wire format of dates, e.g. "1990-01-01".
const DateLayout = "2006-01-02"

// PhoneDTO is the JSON representation of a phone. The id is ignored on creation.
type PhoneDTO struct {
	Id     int64  `json:"id"`
	Type   string `json:"type"   binding:"required,oneof=HOME MOBILE COMMERCIAL"`
	Number string `json:"number" binding:"required,min=13,max=14"`
}

// PersonDTO is the JSON representation of a person together with its phones.
// The id is ignored on creation.
type PersonDTO struct {
	Id        int64      `json:"id"`
	FirstName string     `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string     `json:"lastName"  binding:"required,min=2,max=100"`
	Cpf       string     `json:"cpf"       binding:"required,cpf"`
	BirthDate string     `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Phones    []PhoneDTO `json:"phones"    binding:"dive"`
}

// MessageResponse acknowledges a create or update with a human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}
