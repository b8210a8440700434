package controllers

import (
	"Squares/services/squares"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Profile of the caller
// @Description Entries, payouts, created games, total winnings and balance
// @Tags profile
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} models.Profile
// @Failure 404 {object} object{error=string,code=string}
// @Router /auth/profile [get]
// @Security ApiKeyAuth
func GetProfile(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		profile, err := engine.Profile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
