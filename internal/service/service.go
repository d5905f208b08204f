package service

import (
	"context"
	"fmt"
	"strconv"

	"gitlab.com/dirk.krummacker/person-service/internal/model"
	dto "gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// Entity is implemented by all persisted types. The id is assigned by the store.
type Entity[E any] interface {
	EntityId() int64
	WithId(id int64) E
}

// Store is the persistence of one entity type.
type Store[E any] interface {
	Save(ctx context.Context, entity E) (E, error)
	FindAll(ctx context.Context) ([]E, error)
	// FindById reports false if there is no entity with the given id.
	FindById(ctx context.Context, id int64) (E, bool, error)
	DeleteById(ctx context.Context, id int64) error
}

// Mapper converts between the DTO and the entity of one entity type.
type Mapper[E any, D any] interface {
	ToEntity(d D) E
	ToDTO(e E) D
}

// NotFoundError is returned when there is no entity with the requested id.
type NotFoundError struct {
	Entity string
	Id     int64
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found with ID " + strconv.FormatInt(e.Id, 10)
}

// EntityService implements create, read, update and delete for one entity type on top of a store.
// It holds no state besides its collaborators and can be used concurrently.
type EntityService[E Entity[E], D any] struct {
	name   string
	store  Store[E]
	mapper Mapper[E, D]
}

// NewEntityService returns a service for entities that are called name in messages.
func NewEntityService[E Entity[E], D any](name string, store Store[E], mapper Mapper[E, D]) *EntityService[E, D] {
	return &EntityService[E, D]{name: name, store: store, mapper: mapper}
}

// NewPersonService returns the service for persons.
func NewPersonService(store Store[model.Person], mapper Mapper[model.Person, dto.PersonDTO]) *EntityService[model.Person, dto.PersonDTO] {
	return NewEntityService("Person", store, mapper)
}

// NewPhoneService returns the service for phones.
func NewPhoneService(store Store[model.Phone], mapper Mapper[model.Phone, dto.PhoneDTO]) *EntityService[model.Phone, dto.PhoneDTO] {
	return NewEntityService("Phone", store, mapper)
}

// Create stores a new entity. An id given in the DTO is ignored.
func (s *EntityService[E, D]) Create(ctx context.Context, d D) (dto.MessageResponse, error) {
	entity := s.mapper.ToEntity(d).WithId(0)
	saved, err := s.store.Save(ctx, entity)
	if err != nil {
		return dto.MessageResponse{}, err
	}
	return createMessageResponse(saved.EntityId(), s.name+" created with ID "), nil
}

// ListAll returns all entities in store order. An empty store yields an empty slice.
func (s *EntityService[E, D]) ListAll(ctx context.Context) ([]D, error) {
	entities, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]D, 0, len(entities))
	for _, e := range entities {
		result = append(result, s.mapper.ToDTO(e))
	}
	return result, nil
}

// FindById returns the entity with the given id or a *NotFoundError.
func (s *EntityService[E, D]) FindById(ctx context.Context, id int64) (D, error) {
	entity, err := s.verifyExists(ctx, id)
	if err != nil {
		var zero D
		return zero, err
	}
	return s.mapper.ToDTO(entity), nil
}

// Update overwrites the entity with the given id. The write always goes to id, regardless of the
// id carried by the DTO.
func (s *EntityService[E, D]) Update(ctx context.Context, id int64, d D) (dto.MessageResponse, error) {
	if _, err := s.verifyExists(ctx, id); err != nil {
		return dto.MessageResponse{}, err
	}
	entity := s.mapper.ToEntity(d).WithId(id)
	updated, err := s.store.Save(ctx, entity)
	if err != nil {
		return dto.MessageResponse{}, err
	}
	return createMessageResponse(updated.EntityId(), s.name+" updated with ID "), nil
}

// Delete removes the entity with the given id or returns a *NotFoundError.
func (s *EntityService[E, D]) Delete(ctx context.Context, id int64) error {
	if _, err := s.verifyExists(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteById(ctx, id)
}

// verifyExists loads the entity with the given id. Store failures are passed through unchanged.
func (s *EntityService[E, D]) verifyExists(ctx context.Context, id int64) (E, error) {
	entity, found, err := s.store.FindById(ctx, id)
	if err != nil {
		return entity, err
	}
	if !found {
		return entity, &NotFoundError{Entity: s.name, Id: id}
	}
	return entity, nil
}

func createMessageResponse(id int64, message string) dto.MessageResponse {
	return dto.MessageResponse{Message: fmt.Sprintf("%s%d", message, id)}
}
