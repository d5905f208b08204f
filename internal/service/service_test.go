package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/person-service/internal/mapper"
	"gitlab.com/dirk.krummacker/person-service/internal/model"
	dto "gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// memoryStore is a store that keeps the entities in a map. It assigns ids like an auto increment
// column and upserts entities that already carry an id.
type memoryStore[E Entity[E]] struct {
	entities map[int64]E
	nextId   int64
	saves    int
}

func newMemoryStore[E Entity[E]]() *memoryStore[E] {
	return &memoryStore[E]{entities: map[int64]E{}, nextId: 1}
}

func (m *memoryStore[E]) Save(_ context.Context, entity E) (E, error) {
	m.saves++
	id := entity.EntityId()
	if id == 0 {
		id = m.nextId
		entity = entity.WithId(id)
	}
	if id >= m.nextId {
		m.nextId = id + 1
	}
	m.entities[id] = entity
	return entity, nil
}

func (m *memoryStore[E]) FindAll(_ context.Context) ([]E, error) {
	ids := make([]int64, 0, len(m.entities))
	for id := range m.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]E, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.entities[id])
	}
	return result, nil
}

func (m *memoryStore[E]) FindById(_ context.Context, id int64) (E, bool, error) {
	e, ok := m.entities[id]
	return e, ok, nil
}

func (m *memoryStore[E]) DeleteById(_ context.Context, id int64) error {
	delete(m.entities, id)
	return nil
}

// mockPhoneStore records the calls of the phone service to its store.
type mockPhoneStore struct {
	mock.Mock
}

func (m *mockPhoneStore) Save(ctx context.Context, p model.Phone) (model.Phone, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Phone), args.Error(1)
}

func (m *mockPhoneStore) FindAll(ctx context.Context) ([]model.Phone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Phone), args.Error(1)
}

func (m *mockPhoneStore) FindById(ctx context.Context, id int64) (model.Phone, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Phone), args.Bool(1), args.Error(2)
}

func (m *mockPhoneStore) DeleteById(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newPersonService() (*EntityService[model.Person, dto.PersonDTO], *memoryStore[model.Person]) {
	store := newMemoryStore[model.Person]()
	return NewPersonService(store, mapper.NewPersonMapper(mapper.NewPhoneMapper())), store
}

func anaLima() dto.PersonDTO {
	return dto.PersonDTO{
		FirstName: "Ana",
		LastName:  "Lima",
		Cpf:       "123",
		BirthDate: "1990-01-01",
	}
}

// TestCreateAndFind creates a person on an empty store and reads it back.
func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPersonService()

	ack, err := svc.Create(ctx, anaLima())
	require.NoError(t, err)
	assert.Equal(t, "Person created with ID 1", ack.Message)

	found, err := svc.FindById(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Id)
	assert.Equal(t, "Ana", found.FirstName)
	assert.Equal(t, "Lima", found.LastName)
	assert.Equal(t, "123", found.Cpf)
	assert.Equal(t, "1990-01-01", found.BirthDate)
}

// TestCreateIgnoresId makes sure that an id in the DTO does not end up in the store.
func TestCreateIgnoresId(t *testing.T) {
	ctx := context.Background()
	svc, store := newPersonService()
	d := anaLima()
	d.Id = 77

	ack, err := svc.Create(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "Person created with ID 1", ack.Message)
	_, found := store.entities[77]
	assert.False(t, found)
}

// TestCreateIgnoresPhoneIds makes sure that the phones of a new person reach the store without the
// ids given in the DTO, so that the store assigns new ones.
func TestCreateIgnoresPhoneIds(t *testing.T) {
	ctx := context.Background()
	svc, store := newPersonService()
	d := anaLima()
	d.Phones = []dto.PhoneDTO{
		{Id: 5, Type: "MOBILE", Number: "(11)99999-9999"},
		{Id: 6, Type: "HOME", Number: "(11)3333-4444"},
	}

	_, err := svc.Create(ctx, d)
	require.NoError(t, err)
	stored := store.entities[1]
	require.Len(t, stored.Phones, 2)
	for _, phone := range stored.Phones {
		assert.Zero(t, phone.Id)
	}
	assert.Equal(t, "(11)3333-4444", stored.Phones[1].Number)
	assert.Equal(t, int64(5), d.Phones[0].Id)
}

// TestFindByIdNotFound looks up an id that does not exist.
func TestFindByIdNotFound(t *testing.T) {
	svc, _ := newPersonService()

	_, err := svc.FindById(context.Background(), 99)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.Id)
	assert.Equal(t, "Person not found with ID 99", err.Error())
}

// TestListAll checks the number of entries for an empty and a filled store.
func TestListAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPersonService()

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for i := 0; i < 3; i++ {
		_, err = svc.Create(ctx, anaLima())
		require.NoError(t, err)
	}
	all, err = svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].Id)
	assert.Equal(t, int64(3), all[2].Id)
}

// TestUpdate updates an existing person and reads it back.
func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPersonService()
	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, anaLima())
		require.NoError(t, err)
	}

	changed := anaLima()
	changed.LastName = "Souza"
	ack, err := svc.Update(ctx, 2, changed)
	require.NoError(t, err)
	assert.Equal(t, "Person updated with ID 2", ack.Message)

	found, err := svc.FindById(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Souza", found.LastName)
}

// TestUpdateWritesToPathId sends a DTO whose id differs from the id in the request. The
// write must go to the requested id and leave the other entry alone.
func TestUpdateWritesToPathId(t *testing.T) {
	ctx := context.Background()
	svc, store := newPersonService()
	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, anaLima())
		require.NoError(t, err)
	}

	changed := anaLima()
	changed.Id = 1
	changed.FirstName = "Bia"
	ack, err := svc.Update(ctx, 2, changed)
	require.NoError(t, err)
	assert.Equal(t, "Person updated with ID 2", ack.Message)
	assert.Equal(t, "Ana", store.entities[1].FirstName)
	assert.Equal(t, "Bia", store.entities[2].FirstName)
	assert.Len(t, store.entities, 2)
}

// TestUpdateNotFound updates an id that does not exist. Nothing may be written.
func TestUpdateNotFound(t *testing.T) {
	svc, store := newPersonService()

	_, err := svc.Update(context.Background(), 5, anaLima())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(5), notFound.Id)
	assert.Equal(t, 0, store.saves)
}

// TestDelete removes a person. Subsequent lookups must fail.
func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPersonService()
	_, err := svc.Create(ctx, anaLima())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = svc.FindById(ctx, 1)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// TestDeleteNotFound deletes an id that does not exist.
func TestDeleteNotFound(t *testing.T) {
	svc, _ := newPersonService()

	err := svc.Delete(context.Background(), 1)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(1), notFound.Id)
}

// TestPhoneCreate checks the acknowledgment for phones, which must carry the store's id.
func TestPhoneCreate(t *testing.T) {
	ctx := context.Background()
	store := new(mockPhoneStore)
	svc := NewPhoneService(store, mapper.NewPhoneMapper())
	store.On("Save", ctx, model.Phone{Type: model.PhoneTypeHome, Number: "(11)3333-4444"}).
		Return(model.Phone{Id: 1, Type: model.PhoneTypeHome, Number: "(11)3333-4444"}, nil)

	ack, err := svc.Create(ctx, dto.PhoneDTO{Id: 9, Type: "HOME", Number: "(11)3333-4444"})
	require.NoError(t, err)
	assert.Equal(t, "Phone created with ID 1", ack.Message)
	store.AssertExpectations(t)
}

// TestPhoneDelete verifies that the store is asked exactly once to delete the phone.
func TestPhoneDelete(t *testing.T) {
	ctx := context.Background()
	store := new(mockPhoneStore)
	svc := NewPhoneService(store, mapper.NewPhoneMapper())
	store.On("FindById", ctx, int64(1)).Return(model.Phone{Id: 1}, true, nil)
	store.On("DeleteById", ctx, int64(1)).Return(nil)

	require.NoError(t, svc.Delete(ctx, 1))
	store.AssertNumberOfCalls(t, "DeleteById", 1)
}

// TestPhoneNotFound checks that all lookups by id fail the same way for phones.
func TestPhoneNotFound(t *testing.T) {
	ctx := context.Background()
	store := new(mockPhoneStore)
	svc := NewPhoneService(store, mapper.NewPhoneMapper())
	store.On("FindById", ctx, int64(4)).Return(model.Phone{}, false, nil)

	_, errFind := svc.FindById(ctx, 4)
	_, errUpdate := svc.Update(ctx, 4, dto.PhoneDTO{Type: "HOME", Number: "(11)3333-4444"})
	errDelete := svc.Delete(ctx, 4)
	for _, err := range []error{errFind, errUpdate, errDelete} {
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Phone not found with ID 4", notFound.Error())
	}
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteById", mock.Anything, mock.Anything)
}

// TestStoreErrorsPassThrough makes sure that store failures reach the caller unchanged.
func TestStoreErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	broken := errors.New("connection refused")
	store := new(mockPhoneStore)
	svc := NewPhoneService(store, mapper.NewPhoneMapper())
	store.On("FindById", ctx, int64(1)).Return(model.Phone{}, false, broken)
	store.On("FindAll", ctx).Return([]model.Phone(nil), broken)

	_, err := svc.FindById(ctx, 1)
	assert.ErrorIs(t, err, broken)
	_, err = svc.ListAll(ctx)
	assert.ErrorIs(t, err, broken)
	var notFound *NotFoundError
	assert.False(t, errors.As(err, &notFound))
}
