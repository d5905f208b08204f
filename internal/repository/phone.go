package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/person-service/internal/model"
)

// PhoneRepository stores phones in the phones table. Phones created through this repository do
// not belong to a person.
type PhoneRepository struct {
	db *sqlx.DB

	// insert creates a phone and lets the database assign the id.
	insert *sqlx.NamedStmt

	// upsert writes a phone with a known id. The owner of an existing phone is kept.
	upsert *sqlx.NamedStmt

	selectWhereId *sqlx.Stmt
	deleteWhereId *sqlx.Stmt
}

// NewPhoneRepository prepares all statements of the phone repository.
func NewPhoneRepository(db *sqlx.DB) (*PhoneRepository, error) {
	var err error
	r := &PhoneRepository{db: db}
	r.insert, err = db.PrepareNamed(`
		INSERT INTO phones (type, number)
		VALUES (:type, :number)
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare phone insert: %w", err)
	}
	r.upsert, err = db.PrepareNamed(`
		INSERT INTO phones (id, type, number)
		VALUES (:id, :type, :number)
		ON DUPLICATE KEY UPDATE type = VALUES(type), number = VALUES(number)
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare phone upsert: %w", err)
	}
	r.selectWhereId, err = db.Preparex(`
		SELECT id, type, number FROM phones WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare phone select: %w", err)
	}
	r.deleteWhereId, err = db.Preparex(`
		DELETE FROM phones WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare phone delete: %w", err)
	}
	return r, nil
}

// Save inserts the phone if it has no id yet, otherwise it overwrites the row with that id.
func (r *PhoneRepository) Save(ctx context.Context, phone model.Phone) (model.Phone, error) {
	if phone.Id != 0 {
		if _, err := r.upsert.ExecContext(ctx, phone); err != nil {
			return model.Phone{}, fmt.Errorf("could not update phone %d: %w", phone.Id, err)
		}
		return phone, nil
	}
	result, err := r.insert.ExecContext(ctx, phone)
	if err != nil {
		return model.Phone{}, fmt.Errorf("could not insert phone: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Phone{}, fmt.Errorf("could not read phone id: %w", err)
	}
	phone.Id = id
	return phone, nil
}

// FindAll returns all phones ordered by id, including those that belong to a person.
func (r *PhoneRepository) FindAll(ctx context.Context) ([]model.Phone, error) {
	var phones []model.Phone
	if err := r.db.SelectContext(ctx, &phones, "SELECT id, type, number FROM phones ORDER BY id"); err != nil {
		return nil, fmt.Errorf("could not select phones: %w", err)
	}
	return phones, nil
}

// FindById returns the phone with the given id. The boolean is false if there is none.
func (r *PhoneRepository) FindById(ctx context.Context, id int64) (model.Phone, bool, error) {
	var phones []model.Phone
	if err := r.selectWhereId.SelectContext(ctx, &phones, id); err != nil {
		return model.Phone{}, false, fmt.Errorf("could not select phone %d: %w", id, err)
	}
	if len(phones) == 0 {
		return model.Phone{}, false, nil
	}
	return phones[0], true, nil
}

// DeleteById removes the phone with the given id. Deleting a missing phone is not an error.
func (r *PhoneRepository) DeleteById(ctx context.Context, id int64) error {
	if _, err := r.deleteWhereId.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("could not delete phone %d: %w", id, err)
	}
	return nil
}
