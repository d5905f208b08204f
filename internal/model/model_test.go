package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPersonWithIdZeroClearsPhones makes a person new. Its phones must become new as well.
func TestPersonWithIdZeroClearsPhones(t *testing.T) {
	person := Person{Id: 3, Phones: []Phone{{Id: 5, Type: PhoneTypeHome, Number: "(11)3333-4444"}}}

	fresh := person.WithId(0)
	assert.Zero(t, fresh.Id)
	assert.Equal(t, []Phone{{Type: PhoneTypeHome, Number: "(11)3333-4444"}}, fresh.Phones)
	assert.Equal(t, int64(5), person.Phones[0].Id)
}

// TestPersonWithIdKeepsPhones sets the id of a person. The phone ids stay untouched.
func TestPersonWithIdKeepsPhones(t *testing.T) {
	person := Person{Phones: []Phone{{Id: 5, Type: PhoneTypeHome, Number: "(11)3333-4444"}}}

	updated := person.WithId(3)
	assert.Equal(t, int64(3), updated.Id)
	assert.Equal(t, int64(5), updated.Phones[0].Id)
	assert.Nil(t, Person{}.WithId(0).Phones)
}
