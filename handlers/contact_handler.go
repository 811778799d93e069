package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"facility-monitoring/be/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const contactsPerPage = 10

type ContactHandler struct {
	db *gorm.DB
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

type CreateContactRequest struct {
	Name     string  `json:"name" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone" binding:"required"`
	Whatsapp *string `json:"whatsapp"`
	Address  string  `json:"address" binding:"required"`
	Status   string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateContactRequest struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Whatsapp *string `json:"whatsapp"`
	Address  *string `json:"address"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ContactListResponse struct {
	Data    []models.Contact `json:"data"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int64            `json:"total"`
}

// GetContacts lists active contacts, newest first, paginated.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int64
	if err := h.db.Model(&models.Contact{}).Where("status = ?", models.StatusActive).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}

	var contacts []models.Contact
	err = h.db.
		Where("status = ?", models.StatusActive).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * contactsPerPage).
		Limit(contactsPerPage).
		Find(&contacts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}

	c.JSON(http.StatusOK, ContactListResponse{
		Data:    contacts,
		Page:    page,
		PerPage: contactsPerPage,
		Total:   total,
	})
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	id := c.Param("id")

	var contact models.Contact
	if err := h.db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	contact := models.Contact{
		Name:     req.Name,
		Title:    req.Title,
		Email:    req.Email,
		Phone:    req.Phone,
		Whatsapp: req.Whatsapp,
		Address:  req.Address,
		Status:   status,
	}

	if err := h.db.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id := c.Param("id")

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var contact models.Contact
	if err := h.db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact"})
		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Title != nil {
		contact.Title = *req.Title
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Whatsapp != nil {
		contact.Whatsapp = req.Whatsapp
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if req.Status != nil {
		contact.Status = *req.Status
	}

	if err := h.db.Save(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")

	var contact models.Contact
	if err := h.db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact"})
		return
	}

	if err := h.db.Delete(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
