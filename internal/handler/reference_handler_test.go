package handler_test

import (
	"context"
	"net/http"
	"testing"

	"workorder/internal/apperr"
	"workorder/internal/handler"
	"workorder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLocations struct{ mock.Mock }

func (m *MockLocations) Create(ctx context.Context, l *model.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocations) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Location)
	return l, args.Error(1)
}

func (m *MockLocations) List(ctx context.Context, parentID *uuid.UUID) ([]model.Location, error) {
	args := m.Called(ctx, parentID)
	out, _ := args.Get(0).([]model.Location)
	return out, args.Error(1)
}

func (m *MockLocations) Update(ctx context.Context, l *model.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocations) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockEquipmentStore struct{ mock.Mock }

func (m *MockEquipmentStore) Create(ctx context.Context, e *model.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*model.Equipment)
	return e, args.Error(1)
}

func (m *MockEquipmentStore) ListByType(ctx context.Context, equipmentType string) ([]model.Equipment, error) {
	args := m.Called(ctx, equipmentType)
	out, _ := args.Get(0).([]model.Equipment)
	return out, args.Error(1)
}

func (m *MockEquipmentStore) CreateBatch(ctx context.Context, items []model.Equipment) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockEquipmentStore) Update(ctx context.Context, e *model.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockContractors struct{ mock.Mock }

func (m *MockContractors) Create(ctx context.Context, c *model.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractors) GetByID(ctx context.Context, id uuid.UUID) (*model.Contractor, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Contractor)
	return c, args.Error(1)
}

func (m *MockContractors) List(ctx context.Context) ([]model.Contractor, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Contractor)
	return out, args.Error(1)
}

func (m *MockContractors) Update(ctx context.Context, c *model.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractors) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func setupReferenceRouter() (*gin.Engine, *MockLocations, *MockEquipmentStore, *MockContractors) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	locations, equipment, contractors := new(MockLocations), new(MockEquipmentStore), new(MockContractors)
	h := handler.NewReferenceHandler(locations, equipment, contractors)

	r.POST("/locations", h.CreateLocation)
	r.POST("/equipment", h.CreateEquipment)
	r.GET("/equipment", h.ListEquipment)
	r.POST("/contractors", h.CreateContractor)
	r.PATCH("/locations/:id", h.UpdateLocation)
	r.DELETE("/locations/:id", h.DeleteLocation)
	r.POST("/equipment/bulk", h.BulkCreateEquipment)
	r.PATCH("/equipment/:id", h.UpdateEquipment)
	r.PATCH("/contractors/:id", h.UpdateContractor)
	r.DELETE("/contractors/:id", h.DeleteContractor)
	return r, locations, equipment, contractors
}

func TestCreateEquipment_UnknownLocation(t *testing.T) {
	// Arrange
	router, locations, equipment, _ := setupReferenceRouter()
	locationID := uuid.New()
	locations.On("GetByID", mock.Anything, locationID).Return(nil, apperr.NotFound("location not found"))

	// Act
	resp := doJSON(router, "POST", "/equipment", map[string]string{
		"name": "Inverter 1", "code": "inv-01", "type": "inverter", "location_id": locationID.String(),
	})

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	equipment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEquipment_NormalizesCode(t *testing.T) {
	// Arrange
	router, locations, equipment, _ := setupReferenceRouter()
	locationID := uuid.New()
	locations.On("GetByID", mock.Anything, locationID).Return(&model.Location{ID: locationID}, nil)
	equipment.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Equipment) bool {
		return e.Code == "INV-01" && e.LocationID == locationID
	})).Return(nil)

	// Act
	resp := doJSON(router, "POST", "/equipment", map[string]string{
		"name": "Inverter 1", "code": " inv-01 ", "type": "inverter", "location_id": locationID.String(),
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	equipment.AssertExpectations(t)
}

func TestCreateContractor_Duplicate(t *testing.T) {
	router, _, _, contractors := setupReferenceRouter()
	contractors.On("Create", mock.Anything, mock.Anything).Return(apperr.Conflict("record already exists"))

	resp := doJSON(router, "POST", "/contractors", map[string]string{
		"company_name": "SolarFix", "contact_info": "ops@solarfix.example", "specialty": "electrical", "phone": "+1 555 0100",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestListEquipment_EmptyIsArray(t *testing.T) {
	router, _, equipment, _ := setupReferenceRouter()
	equipment.On("ListByType", mock.Anything, "tracker").Return(nil, nil)

	resp := doJSON(router, "GET", "/equipment?type=tracker", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestUpdateLocation_DuplicateCode(t *testing.T) {
	// Arrange
	router, locations, _, _ := setupReferenceRouter()
	id := uuid.New()
	locations.On("GetByID", mock.Anything, id).
		Return(&model.Location{ID: id, Name: "Block B", Code: "BLK-B", Type: "block"}, nil)
	locations.On("Update", mock.Anything, mock.MatchedBy(func(l *model.Location) bool {
		return l.Code == "BLK-A" && l.Name == "Block B"
	})).Return(apperr.Conflict("record already exists"))

	// Act
	resp := doJSON(router, "PATCH", "/locations/"+id.String(), map[string]string{"code": "blk-a"})

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	locations.AssertExpectations(t)
}

func TestUpdateLocation_OwnParent(t *testing.T) {
	router, locations, _, _ := setupReferenceRouter()
	id := uuid.New()
	locations.On("GetByID", mock.Anything, id).Return(&model.Location{ID: id, Code: "BLK-B"}, nil)

	resp := doJSON(router, "PATCH", "/locations/"+id.String(), map[string]string{"parent_id": id.String()})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	locations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateEquipment_KeepsOmittedFields(t *testing.T) {
	// Arrange
	router, _, equipment, _ := setupReferenceRouter()
	id, locationID := uuid.New(), uuid.New()
	equipment.On("GetByID", mock.Anything, id).Return(&model.Equipment{
		ID: id, Name: "Inverter 1", Code: "INV-01", Type: "inverter", LocationID: locationID, Brand: "Sungrow",
	}, nil)
	equipment.On("Update", mock.Anything, mock.MatchedBy(func(e *model.Equipment) bool {
		return e.Brand == "Huawei" && e.Name == "Inverter 1" && e.Code == "INV-01" && e.LocationID == locationID
	})).Return(nil)

	// Act
	resp := doJSON(router, "PATCH", "/equipment/"+id.String(), map[string]string{"brand": "Huawei"})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	equipment.AssertExpectations(t)
}

func TestUpdateContractor_NotFound(t *testing.T) {
	router, _, _, contractors := setupReferenceRouter()
	id := uuid.New()
	contractors.On("GetByID", mock.Anything, id).Return(nil, apperr.NotFound("contractor not found"))

	resp := doJSON(router, "PATCH", "/contractors/"+id.String(), map[string]string{"phone": "+1 555 0101"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	contractors.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteContractor_StillReferenced(t *testing.T) {
	router, _, _, contractors := setupReferenceRouter()
	id := uuid.New()
	contractors.On("Delete", mock.Anything, id).Return(apperr.Conflict("record is still referenced and cannot be deleted"))

	resp := doJSON(router, "DELETE", "/contractors/"+id.String(), nil)

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestDeleteLocation_Success(t *testing.T) {
	router, locations, _, _ := setupReferenceRouter()
	id := uuid.New()
	locations.On("Delete", mock.Anything, id).Return(nil)

	resp := doJSON(router, "DELETE", "/locations/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Location deleted successfully"}`, resp.Body.String())
}

func TestBulkCreateEquipment_NumbersItems(t *testing.T) {
	// Arrange
	router, locations, equipment, _ := setupReferenceRouter()
	locationID := uuid.New()
	locations.On("GetByID", mock.Anything, locationID).Return(&model.Location{ID: locationID}, nil)
	equipment.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []model.Equipment) bool {
		return len(items) == 3 &&
			items[0].Name == "SCB Inverter 1.1 09" && items[0].Code == "SCB-011-09" &&
			items[2].Name == "SCB Inverter 1.1 11" && items[2].Code == "SCB-011-11" &&
			items[2].LocationID == locationID && items[2].Type == "scb"
	})).Return(nil)

	// Act
	resp := doJSON(router, "POST", "/equipment/bulk", map[string]any{
		"type": "scb", "location_id": locationID.String(), "quantity": 3,
		"name_prefix": "SCB Inverter 1.1", "code_prefix": "scb-011-", "start_number": 9,
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":3`)
	equipment.AssertExpectations(t)
}

func TestBulkCreateEquipment_QuantityLimit(t *testing.T) {
	router, _, equipment, _ := setupReferenceRouter()

	resp := doJSON(router, "POST", "/equipment/bulk", map[string]any{
		"type": "scb", "location_id": uuid.NewString(), "quantity": 101,
		"name_prefix": "SCB", "code_prefix": "SCB-", "start_number": 1,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	equipment.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
