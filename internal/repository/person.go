package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/person-service/internal/model"
)

const (
	insertPerson = `
		INSERT INTO persons (first_name, last_name, cpf, birth_date)
		VALUES (:first_name, :last_name, :cpf, :birth_date)`

	upsertPerson = `
		INSERT INTO persons (id, first_name, last_name, cpf, birth_date)
		VALUES (:id, :first_name, :last_name, :cpf, :birth_date)
		ON DUPLICATE KEY UPDATE first_name = VALUES(first_name), last_name = VALUES(last_name),
			cpf = VALUES(cpf), birth_date = VALUES(birth_date)`

	selectOwnedPhoneIds = `SELECT id FROM phones WHERE person_id = ? FOR UPDATE`

	deleteOwnedPhones = `DELETE FROM phones WHERE person_id = ?`

	insertOwnedPhone = `
		INSERT INTO phones (person_id, type, number)
		VALUES (:person_id, :type, :number)`

	// reinsertOwnedPhone writes back a phone that the person owned before the save. It fails
	// instead of overwriting if the id is taken.
	reinsertOwnedPhone = `
		INSERT INTO phones (id, person_id, type, number)
		VALUES (:id, :person_id, :type, :number)`

	selectPersons     = `SELECT id, first_name, last_name, cpf, birth_date FROM persons ORDER BY id`
	selectOwnedPhones = `SELECT id, person_id, type, number FROM phones WHERE person_id IS NOT NULL ORDER BY id`
)

// phoneRow is a phone together with the person it belongs to.
type phoneRow struct {
	model.Phone
	PersonId int64 `db:"person_id"`
}

// PersonRepository stores persons in the persons table and their phones in the phones table.
type PersonRepository struct {
	db *sqlx.DB

	selectWhereId       *sqlx.Stmt
	selectPhonesWhereId *sqlx.Stmt
	deleteWhereId       *sqlx.Stmt
}

// NewPersonRepository prepares all statements of the person repository.
func NewPersonRepository(db *sqlx.DB) (*PersonRepository, error) {
	var err error
	r := &PersonRepository{db: db}
	r.selectWhereId, err = db.Preparex(`
		SELECT id, first_name, last_name, cpf, birth_date FROM persons WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare person select: %w", err)
	}
	r.selectPhonesWhereId, err = db.Preparex(`
		SELECT id, type, number FROM phones WHERE person_id = ? ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare phones select: %w", err)
	}
	// The phones are removed by the foreign key's ON DELETE CASCADE.
	r.deleteWhereId, err = db.Preparex(`
		DELETE FROM persons WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare person delete: %w", err)
	}
	return r, nil
}

// Save writes the person and replaces its phones in a single transaction. A person without id
// is inserted, otherwise the row with that id is overwritten. A phone keeps its id only if it
// already belonged to this person; any other phone is stored as a new row, so a save never takes
// over a phone of someone else. The returned person carries the ids of the person and of all
// phones.
func (r *PersonRepository) Save(ctx context.Context, person model.Person) (model.Person, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Person{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	owned := make(map[int64]bool)
	if person.Id == 0 {
		result, err := tx.NamedExecContext(ctx, insertPerson, person)
		if err != nil {
			return model.Person{}, fmt.Errorf("could not insert person: %w", err)
		}
		if person.Id, err = result.LastInsertId(); err != nil {
			return model.Person{}, fmt.Errorf("could not read person id: %w", err)
		}
	} else {
		if _, err := tx.NamedExecContext(ctx, upsertPerson, person); err != nil {
			return model.Person{}, fmt.Errorf("could not update person %d: %w", person.Id, err)
		}
		var ids []int64
		if err := tx.SelectContext(ctx, &ids, selectOwnedPhoneIds, person.Id); err != nil {
			return model.Person{}, fmt.Errorf("could not select phones of person %d: %w", person.Id, err)
		}
		for _, id := range ids {
			owned[id] = true
		}
		if _, err := tx.ExecContext(ctx, deleteOwnedPhones, person.Id); err != nil {
			return model.Person{}, fmt.Errorf("could not remove phones of person %d: %w", person.Id, err)
		}
	}

	phones := make([]model.Phone, 0, len(person.Phones))
	for _, phone := range person.Phones {
		if !owned[phone.Id] {
			phone.Id = 0
		}
		row := phoneRow{Phone: phone, PersonId: person.Id}
		if phone.Id != 0 {
			if _, err := tx.NamedExecContext(ctx, reinsertOwnedPhone, row); err != nil {
				return model.Person{}, fmt.Errorf("could not write phone %d: %w", phone.Id, err)
			}
			delete(owned, phone.Id)
		} else {
			result, err := tx.NamedExecContext(ctx, insertOwnedPhone, row)
			if err != nil {
				return model.Person{}, fmt.Errorf("could not insert phone: %w", err)
			}
			if phone.Id, err = result.LastInsertId(); err != nil {
				return model.Person{}, fmt.Errorf("could not read phone id: %w", err)
			}
		}
		phones = append(phones, phone)
	}
	person.Phones = phones

	if err := tx.Commit(); err != nil {
		return model.Person{}, fmt.Errorf("could not commit person %d: %w", person.Id, err)
	}
	return person, nil
}

// FindAll returns all persons with their phones, ordered by id.
func (r *PersonRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	var persons []model.Person
	if err := r.db.SelectContext(ctx, &persons, selectPersons); err != nil {
		return nil, fmt.Errorf("could not select persons: %w", err)
	}
	var rows []phoneRow
	if err := r.db.SelectContext(ctx, &rows, selectOwnedPhones); err != nil {
		return nil, fmt.Errorf("could not select phones: %w", err)
	}
	byPerson := make(map[int64][]model.Phone)
	for _, row := range rows {
		byPerson[row.PersonId] = append(byPerson[row.PersonId], row.Phone)
	}
	for i := range persons {
		persons[i].Phones = byPerson[persons[i].Id]
		if persons[i].Phones == nil {
			persons[i].Phones = []model.Phone{}
		}
	}
	return persons, nil
}

// FindById returns the person with the given id and its phones. The boolean is false if there
// is no such person.
func (r *PersonRepository) FindById(ctx context.Context, id int64) (model.Person, bool, error) {
	var persons []model.Person
	if err := r.selectWhereId.SelectContext(ctx, &persons, id); err != nil {
		return model.Person{}, false, fmt.Errorf("could not select person %d: %w", id, err)
	}
	if len(persons) == 0 {
		return model.Person{}, false, nil
	}
	person := persons[0]
	person.Phones = []model.Phone{}
	if err := r.selectPhonesWhereId.SelectContext(ctx, &person.Phones, id); err != nil {
		return model.Person{}, false, fmt.Errorf("could not select phones of person %d: %w", id, err)
	}
	return person, true, nil
}

// DeleteById removes the person with the given id together with its phones.
func (r *PersonRepository) DeleteById(ctx context.Context, id int64) error {
	if _, err := r.deleteWhereId.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("could not delete person %d: %w", id, err)
	}
	return nil
}
