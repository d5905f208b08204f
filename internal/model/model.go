package model

import "time"

// PhoneType is the category of a phone number.
type PhoneType string

const (
	PhoneTypeHome       PhoneType = "HOME"
	PhoneTypeMobile     PhoneType = "MOBILE"
	PhoneTypeCommercial PhoneType = "COMMERCIAL"
)

// Phone is the persisted form of a phone number. The Id field is assigned by the database.
type Phone struct {
	Id     int64     `db:"id"`
	Type   PhoneType `db:"type"`
	Number string    `db:"number"`
}

// EntityId returns the database id of the phone.
func (p Phone) EntityId() int64 {
	return p.Id
}

// WithId returns a copy of the phone that carries the given id.
func (p Phone) WithId(id int64) Phone {
	p.Id = id
	return p
}

// Person is the persisted form of a person. A person owns its phones; they are stored in a
// separate table and deleted together with the person.
type Person struct {
	Id        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Cpf       string    `db:"cpf"`
	BirthDate time.Time `db:"birth_date"`
	Phones    []Phone   `db:"-"`
}

// EntityId returns the database id of the person.
func (p Person) EntityId() int64 {
	return p.Id
}

// WithId returns a copy of the person that carries the given id. A person without id is new,
// so its phones are new as well and lose their ids.
func (p Person) WithId(id int64) Person {
	p.Id = id
	if id == 0 && p.Phones != nil {
		phones := make([]Phone, len(p.Phones))
		for i, phone := range p.Phones {
			phones[i] = phone.WithId(0)
		}
		p.Phones = phones
	}
	return p
}
