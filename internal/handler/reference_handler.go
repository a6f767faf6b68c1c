package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/apperr"
	"workorder/internal/model"
)

type LocationStore interface {
	Create(ctx context.Context, location *model.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context, parentID *uuid.UUID) ([]model.Location, error)
	Update(ctx context.Context, location *model.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EquipmentStore interface {
	Create(ctx context.Context, equipment *model.Equipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
	ListByType(ctx context.Context, equipmentType string) ([]model.Equipment, error)
	CreateBatch(ctx context.Context, items []model.Equipment) error
	Update(ctx context.Context, equipment *model.Equipment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContractorStore interface {
	Create(ctx context.Context, contractor *model.Contractor) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contractor, error)
	List(ctx context.Context) ([]model.Contractor, error)
	Update(ctx context.Context, contractor *model.Contractor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReferenceHandler manages the data tasks point at: locations, equipment
// and contractors.
type ReferenceHandler struct {
	locations   LocationStore
	equipment   EquipmentStore
	contractors ContractorStore
}

func NewReferenceHandler(locations LocationStore, equipment EquipmentStore, contractors ContractorStore) *ReferenceHandler {
	return &ReferenceHandler{locations: locations, equipment: equipment, contractors: contractors}
}

type LocationRequest struct {
	Name        string     `json:"name" binding:"required"`
	Code        string     `json:"code" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
}

type EquipmentRequest struct {
	Name             string     `json:"name" binding:"required"`
	Code             string     `json:"code" binding:"required"`
	Type             string     `json:"type" binding:"required"`
	LocationID       uuid.UUID  `json:"location_id"`
	Brand            string     `json:"brand"`
	Model            string     `json:"model"`
	InstallationDate *time.Time `json:"installation_date"`
}

type ContractorRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	ContactInfo string `json:"contact_info" binding:"required"`
	Specialty   string `json:"specialty" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
}

// Partial updates: only the fields present in the body change.

type LocationUpdateRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1"`
	Code        *string    `json:"code" binding:"omitempty,min=1"`
	Type        *string    `json:"type" binding:"omitempty,min=1"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description *string    `json:"description"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
}

type EquipmentUpdateRequest struct {
	Name             *string    `json:"name" binding:"omitempty,min=1"`
	Code             *string    `json:"code" binding:"omitempty,min=1"`
	Type             *string    `json:"type" binding:"omitempty,min=1"`
	LocationID       *uuid.UUID `json:"location_id"`
	Brand            *string    `json:"brand"`
	Model            *string    `json:"model"`
	InstallationDate *time.Time `json:"installation_date"`
}

type ContractorUpdateRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,min=1"`
	ContactInfo *string `json:"contact_info" binding:"omitempty,min=1"`
	Specialty   *string `json:"specialty" binding:"omitempty,min=1"`
	Phone       *string `json:"phone" binding:"omitempty,min=1"`
}

// BulkEquipmentRequest creates Quantity numbered items under one location,
// e.g. "SCB 01".."SCB 18" with codes "SCB-1.1-01".."SCB-1.1-18".
type BulkEquipmentRequest struct {
	Type        string    `json:"type" binding:"required"`
	LocationID  uuid.UUID `json:"location_id"`
	Quantity    int       `json:"quantity" binding:"required,min=1,max=100"`
	NamePrefix  string    `json:"name_prefix" binding:"required"`
	CodePrefix  string    `json:"code_prefix" binding:"required"`
	StartNumber int       `json:"start_number" binding:"required,min=1"`
}

type BulkEquipmentResponse struct {
	Count int               `json:"count"`
	Items []model.Equipment `json:"items"`
}

// CreateLocation создает локацию; родитель должен существовать
func (h *ReferenceHandler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ParentID != nil {
		if _, err := h.locations.GetByID(c.Request.Context(), *req.ParentID); err != nil {
			writeError(c, err)
			return
		}
	}

	location := &model.Location{
		Name:        req.Name,
		Code:        normalizeCode(req.Code),
		Type:        req.Type,
		ParentID:    req.ParentID,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if err := h.locations.Create(c.Request.Context(), location); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *ReferenceHandler) ListLocations(c *gin.Context) {
	parentID, err := optionalID(c.Query("parent_id"), "parent_id")
	if err != nil {
		writeError(c, err)
		return
	}
	locations, err := h.locations.List(c.Request.Context(), parentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(locations))
}

func (h *ReferenceHandler) GetLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := h.locations.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// CreateEquipment создает оборудование в существующей локации
func (h *ReferenceHandler) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.locations.GetByID(c.Request.Context(), req.LocationID); err != nil {
		writeError(c, err)
		return
	}

	equipment := &model.Equipment{
		Name:             req.Name,
		Code:             normalizeCode(req.Code),
		Type:             req.Type,
		LocationID:       req.LocationID,
		Brand:            req.Brand,
		Model:            req.Model,
		InstallationDate: req.InstallationDate,
	}
	if err := h.equipment.Create(c.Request.Context(), equipment); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

func (h *ReferenceHandler) ListEquipment(c *gin.Context) {
	items, err := h.equipment.ListByType(c.Request.Context(), c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(items))
}

func (h *ReferenceHandler) GetEquipment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	equipment, err := h.equipment.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *ReferenceHandler) CreateContractor(c *gin.Context) {
	var req ContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contractor := &model.Contractor{
		CompanyName: strings.TrimSpace(req.CompanyName),
		ContactInfo: req.ContactInfo,
		Specialty:   req.Specialty,
		Phone:       req.Phone,
	}
	if err := h.contractors.Create(c.Request.Context(), contractor); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contractor)
}

func (h *ReferenceHandler) ListContractors(c *gin.Context) {
	contractors, err := h.contractors.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(contractors))
}

func (h *ReferenceHandler) GetContractor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contractor, err := h.contractors.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

// UpdateLocation меняет локацию; новый родитель должен существовать
func (h *ReferenceHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	location, err := h.locations.GetByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			writeError(c, apperr.InvalidArgument("a location cannot be its own parent"))
			return
		}
		if _, err := h.locations.GetByID(ctx, *req.ParentID); err != nil {
			writeError(c, err)
			return
		}
		location.ParentID = req.ParentID
	}
	setIf(&location.Name, req.Name)
	setIf(&location.Type, req.Type)
	setIf(&location.Description, req.Description)
	if req.Code != nil {
		location.Code = normalizeCode(*req.Code)
	}
	if req.Latitude != nil {
		location.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		location.Longitude = req.Longitude
	}

	if err := h.locations.Update(ctx, location); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *ReferenceHandler) DeleteLocation(c *gin.Context) {
	h.remove(c, "Location", h.locations.Delete)
}

func (h *ReferenceHandler) UpdateEquipment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req EquipmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	equipment, err := h.equipment.GetByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.LocationID != nil {
		if _, err := h.locations.GetByID(ctx, *req.LocationID); err != nil {
			writeError(c, err)
			return
		}
		equipment.LocationID = *req.LocationID
	}
	setIf(&equipment.Name, req.Name)
	setIf(&equipment.Type, req.Type)
	setIf(&equipment.Brand, req.Brand)
	setIf(&equipment.Model, req.Model)
	if req.Code != nil {
		equipment.Code = normalizeCode(*req.Code)
	}
	if req.InstallationDate != nil {
		equipment.InstallationDate = req.InstallationDate
	}

	if err := h.equipment.Update(ctx, equipment); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *ReferenceHandler) DeleteEquipment(c *gin.Context) {
	h.remove(c, "Equipment", h.equipment.Delete)
}

// BulkCreateEquipment создает пронумерованную серию оборудования в одной локации
func (h *ReferenceHandler) BulkCreateEquipment(c *gin.Context) {
	var req BulkEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.locations.GetByID(c.Request.Context(), req.LocationID); err != nil {
		writeError(c, err)
		return
	}

	items := make([]model.Equipment, 0, req.Quantity)
	for i := range req.Quantity {
		n := fmt.Sprintf("%02d", req.StartNumber+i)
		items = append(items, model.Equipment{
			Name:       strings.TrimSpace(req.NamePrefix) + " " + n,
			Code:       normalizeCode(req.CodePrefix + n),
			Type:       req.Type,
			LocationID: req.LocationID,
		})
	}
	if err := h.equipment.CreateBatch(c.Request.Context(), items); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, BulkEquipmentResponse{Count: len(items), Items: items})
}

func (h *ReferenceHandler) UpdateContractor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ContractorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contractor, err := h.contractors.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.CompanyName != nil {
		contractor.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	setIf(&contractor.ContactInfo, req.ContactInfo)
	setIf(&contractor.Specialty, req.Specialty)
	setIf(&contractor.Phone, req.Phone)

	if err := h.contractors.Update(c.Request.Context(), contractor); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func (h *ReferenceHandler) DeleteContractor(c *gin.Context) {
	h.remove(c, "Contractor", h.contractors.Delete)
}

func (h *ReferenceHandler) remove(c *gin.Context, what string, del func(context.Context, uuid.UUID) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
