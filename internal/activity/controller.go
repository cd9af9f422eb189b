package activity

import (
	"database/sql"
	"net/http"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"

	"github.com/gin-gonic/gin"
)

// feedLimit caps how many entries the feed returns.
const feedLimit = 50

type ActivityController struct {
	repo ActivityRepositoryInterface
	db   *sql.DB
}

func NewActivityController(repo ActivityRepositoryInterface, db *sql.DB) *ActivityController {
	return &ActivityController{
		repo: repo,
		db:   db,
	}
}

// List returns the authenticated user's recent activity, newest first.
func (ac *ActivityController) List(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	entries, err := ac.repo.ListByUser(ac.db, userID, feedLimit)
	if err != nil {
		apperr.Respond(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
