package mapper

import (
	"time"

	"gitlab.com/dirk.krummacker/person-service/internal/model"
	dto "gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// PhoneMapper converts between phone DTOs and phone entities.
type PhoneMapper struct{}

// NewPhoneMapper returns a phone mapper.
func NewPhoneMapper() PhoneMapper {
	return PhoneMapper{}
}

// ToEntity converts a phone DTO into a phone entity.
func (PhoneMapper) ToEntity(d dto.PhoneDTO) model.Phone {
	return model.Phone{
		Id:     d.Id,
		Type:   model.PhoneType(d.Type),
		Number: d.Number,
	}
}

// ToDTO converts a phone entity into a phone DTO.
func (PhoneMapper) ToDTO(p model.Phone) dto.PhoneDTO {
	return dto.PhoneDTO{
		Id:     p.Id,
		Type:   string(p.Type),
		Number: p.Number,
	}
}

// PersonMapper converts between person DTOs and person entities, including the phones.
type PersonMapper struct {
	phones PhoneMapper
}

// NewPersonMapper returns a person mapper that uses the given mapper for the phones.
func NewPersonMapper(phones PhoneMapper) PersonMapper {
	return PersonMapper{phones: phones}
}

// ToEntity converts a person DTO into a person entity. The birth date must already have been
// validated; an unparsable date maps to the zero time.
func (m PersonMapper) ToEntity(d dto.PersonDTO) model.Person {
	birthDate, _ := time.Parse(dto.DateLayout, d.BirthDate)
	var phones []model.Phone
	if d.Phones != nil {
		phones = make([]model.Phone, 0, len(d.Phones))
		for _, p := range d.Phones {
			phones = append(phones, m.phones.ToEntity(p))
		}
	}
	return model.Person{
		Id:        d.Id,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Cpf:       d.Cpf,
		BirthDate: birthDate,
		Phones:    phones,
	}
}

// ToDTO converts a person entity into a person DTO.
func (m PersonMapper) ToDTO(p model.Person) dto.PersonDTO {
	var phones []dto.PhoneDTO
	if p.Phones != nil {
		phones = make([]dto.PhoneDTO, 0, len(p.Phones))
		for _, ph := range p.Phones {
			phones = append(phones, m.phones.ToDTO(ph))
		}
	}
	return dto.PersonDTO{
		Id:        p.Id,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Cpf:       p.Cpf,
		BirthDate: p.BirthDate.Format(dto.DateLayout),
		Phones:    phones,
	}
}
