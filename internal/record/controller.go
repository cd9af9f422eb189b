package record

import (
	"net/http"
	"time"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"

	"github.com/gin-gonic/gin"
)

// RecordController serves one record variant; the handler package mounts
// one instance per kind.
type RecordController struct {
	service RecordServiceInterface
	kind    Kind
}

func NewRecordController(service RecordServiceInterface, kind Kind) *RecordController {
	return &RecordController{
		service: service,
		kind:    kind,
	}
}

// createRequest covers both variants; the kind decides whether category
// or source is the required label.
type createRequest struct {
	Category string     `json:"category"`
	Source   string     `json:"source"`
	Amount   *float64   `json:"amount"`
	Note     string     `json:"note"`
	Date     *time.Time `json:"date"`
	Emoji    string     `json:"emoji"`
}

// patchRequest uses pointers throughout: absent fields keep their prior
// value, present ones always apply.
type patchRequest struct {
	Category *string    `json:"category"`
	Source   *string    `json:"source"`
	Amount   *float64   `json:"amount"`
	Note     *string    `json:"note"`
	Date     *time.Time `json:"date"`
	Emoji    *string    `json:"emoji"`
}

// Create handles adding a record for the authenticated owner.
func (rc *RecordController) Create(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	label := req.Category
	if rc.kind.LabelCol == "source" {
		label = req.Source
	}

	rec, err := rc.service.Create(rc.kind, userID, CreateInput{
		Label:  label,
		Amount: req.Amount,
		Note:   req.Note,
		Date:   req.Date,
		Emoji:  req.Emoji,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       rc.kind.Title + " added successfully",
		rc.kind.ItemKey: rc.kind.Public(rec),
	})
}

// List returns all of the owner's records, newest first.
func (rc *RecordController) List(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	records, err := rc.service.List(rc.kind, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	items := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		items = append(items, rc.kind.Public(rec))
	}

	c.JSON(http.StatusOK, gin.H{rc.kind.ListKey: items})
}

// Update applies a partial patch to an owned record.
func (rc *RecordController) Update(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	label := req.Category
	if rc.kind.LabelCol == "source" {
		label = req.Source
	}

	rec, err := rc.service.Update(rc.kind, userID, c.Param("id"), Patch{
		Label:  label,
		Amount: req.Amount,
		Note:   req.Note,
		Date:   req.Date,
		Emoji:  req.Emoji,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       rc.kind.Title + " updated",
		rc.kind.ItemKey: rc.kind.Public(rec),
	})
}

// Delete removes an owned record.
func (rc *RecordController) Delete(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	if err := rc.service.Delete(rc.kind, userID, c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": rc.kind.Title + " deleted successfully"})
}
