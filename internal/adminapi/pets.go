package adminapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/webserver"
	"github.com/pawsworks/petshop/pkg/common"
)

type petPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=128"`
	Species     string  `json:"species" validate:"required,min=1,max=64"`
	Breed       string  `json:"breed" validate:"omitempty,max=128"`
	AgeMonths   int     `json:"age_months" validate:"omitempty,min=0"`
	Gender      string  `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Price       float64 `json:"price" validate:"omitempty,min=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=available sold reserved adopted"`
	Vaccinated  *bool   `json:"vaccinated"`
	Neutered    *bool   `json:"neutered"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type petCSVRow struct {
	Name        string  `csv:"name"`
	Species     string  `csv:"species"`
	Breed       string  `csv:"breed"`
	AgeMonths   int     `csv:"age_months"`
	Gender      string  `csv:"gender"`
	Price       float64 `csv:"price"`
	Vaccinated  bool    `csv:"vaccinated"`
	Neutered    bool    `csv:"neutered"`
	Description string  `csv:"description"`
}

// registerPetRoutes registers pet CRUD endpoints
func registerPetRoutes() {
	webserver.ApiGET("/pets", listPets)
	webserver.ApiGET("/pets/:id", getPet)
	webserver.ApiPOST("/pets", createPet)
	webserver.ApiPOST("/pets/import", importPets)
	webserver.ApiPUT("/pets/:id", updatePet)
	webserver.ApiDELETE("/pets/:id", deletePet)
}

func listPets(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Filters: q matches name/breed, plus exact species and status
	q := strings.TrimSpace(c.QueryParam("q"))
	species := strings.TrimSpace(c.QueryParam("species"))
	status := strings.TrimSpace(c.QueryParam("status"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"age_months": "age_months",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, okSort := allowed[sortField]
	if !okSort || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Pet{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR breed ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(breed) LIKE ?", like, like)
		}
	}
	if species != "" {
		db = db.Where("species = ?", species)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", err.Error())
	}

	var rows []domain.Pet
	if err := db.Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getPet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	var p domain.Pet
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet", err.Error())
	}
	return ok(c, p)
}

func createPet(c echo.Context) error {
	var payload petPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pet parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	now := time.Now()
	p := domain.Pet{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Species:     strings.TrimSpace(payload.Species),
		Breed:       strings.TrimSpace(payload.Breed),
		AgeMonths:   payload.AgeMonths,
		Gender:      common.IfEmptyStr(payload.Gender, "unknown"),
		Price:       payload.Price,
		Status:      common.IfEmptyStr(payload.Status, domain.PetStatusAvailable),
		Description: payload.Description,
		Image:       strings.TrimSpace(payload.Image),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.Vaccinated != nil {
		p.Vaccinated = *payload.Vaccinated
	}
	if payload.Neutered != nil {
		p.Neutered = *payload.Neutered
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create pet", err.Error())
	}
	addOprLog(c, "pet:create", p.Name)
	return ok(c, p)
}

// importPets bulk loads pets from a CSV request body. Every imported pet
// enters the catalog as available.
func importPets(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read request body", nil)
	}
	var rows []petCSVRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}
	if len(rows) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "CSV contains no rows", nil)
	}

	now := time.Now()
	pets := make([]domain.Pet, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Species) == "" {
			return fail(c, http.StatusBadRequest, "INVALID_CSV", "Every row requires name and species", nil)
		}
		pets = append(pets, domain.Pet{
			ID:          common.UUIDint64(),
			Name:        strings.TrimSpace(row.Name),
			Species:     strings.TrimSpace(row.Species),
			Breed:       strings.TrimSpace(row.Breed),
			AgeMonths:   row.AgeMonths,
			Gender:      common.IfEmptyStr(row.Gender, "unknown"),
			Price:       row.Price,
			Status:      domain.PetStatusAvailable,
			Vaccinated:  row.Vaccinated,
			Neutered:    row.Neutered,
			Description: row.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := GetDB(c).Create(&pets).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import pets", err.Error())
	}
	addOprLog(c, "pet:import", fmt.Sprintf("%d rows", len(pets)))
	return ok(c, map[string]interface{}{"imported": len(pets)})
}

func updatePet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	var p domain.Pet
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet", err.Error())
	}

	var payload petPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pet parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(payload.Name),
		"species":     strings.TrimSpace(payload.Species),
		"breed":       strings.TrimSpace(payload.Breed),
		"age_months":  payload.AgeMonths,
		"price":       payload.Price,
		"description": payload.Description,
		"image":       strings.TrimSpace(payload.Image),
		"updated_at":  time.Now(),
	}
	if payload.Gender != "" {
		updates["gender"] = payload.Gender
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Vaccinated != nil {
		updates["vaccinated"] = *payload.Vaccinated
	}
	if payload.Neutered != nil {
		updates["neutered"] = *payload.Neutered
	}

	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update pet", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	addOprLog(c, "pet:update", p.Name)
	return ok(c, p)
}

func deletePet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Pet{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete pet", err.Error())
	}
	addOprLog(c, "pet:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
