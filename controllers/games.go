package controllers

import (
	game_constants "Squares/constants/game"
	"Squares/middleware"
	"Squares/models"
	"Squares/services/squares"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GameView is a game as listed to one user: user_entries are that user's
// entries in it
type GameView struct {
	*models.Game
	UserEntries []models.Entry `json:"user_entries"`
}

// MarshalJSON keeps user_entries next to the game fields. Without it the
// embedded game's own MarshalJSON would be promoted and drop them.
func (v GameView) MarshalJSON() ([]byte, error) {
	type game models.Game
	return json.Marshal(struct {
		*game
		Entries     []models.Entry `json:"entries"`
		UserEntries []models.Entry `json:"user_entries"`
	}{(*game)(v.Game), v.Game.Entries(), v.UserEntries})
}

// currentUser aborts with 401 when there's no identity; AuthRequired
// normally guarantees one
func currentUser(c *gin.Context) (string, bool) {
	userID, _, err := middleware.CurrentUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

// @Summary Creates a new game
// @Description Opens a pending squares game owned by the caller
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game body models.GameCreation true "Event name and entry fee"
// @Success 201 {object} models.Game
// @Failure 400 {object} object{error=string,code=string}
// @Router /auth/games [post]
// @Security ApiKeyAuth
func CreateGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req models.GameCreation
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request data: "+err.Error())
			return
		}

		game, err := engine.Create(c.Request.Context(), userID, req.EventName, req.EntryFee)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, game)
	}
}

// @Summary Lists games
// @Description Newest first, at most 100. Each game carries the caller's entries in user_entries.
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param status query string false "pending, active or completed"
// @Param creator query string false "Creator user id"
// @Param limit query int false "Maximum number of games"
// @Success 200 {array} GameView
// @Failure 400 {object} object{error=string,code=string}
// @Router /auth/games [get]
// @Security ApiKeyAuth
func ListGames(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		filter := models.GameFilter{CreatorID: c.Query("creator")}
		switch status := models.GameStatus(c.Query("status")); status {
		case "", models.StatusPending, models.StatusActive, models.StatusCompleted:
			filter.Status = status
		default:
			badRequest(c, "status must be pending, active or completed")
			return
		}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 || limit > game_constants.MAX_LISTED_GAMES {
				badRequest(c, "limit must be between 1 and "+strconv.Itoa(game_constants.MAX_LISTED_GAMES))
				return
			}
			filter.Limit = limit
		}

		games, err := engine.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		views := make([]GameView, 0, len(games))
		for _, g := range games {
			views = append(views, GameView{Game: g, UserEntries: g.EntriesFor(userID)})
		}
		c.JSON(http.StatusOK, views)
	}
}

// @Summary Gives info of a game
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Success 200 {object} models.Game
// @Failure 404 {object} object{error=string,code=string}
// @Router /auth/games/{game_id} [get]
// @Security ApiKeyAuth
func GetGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := engine.Get(c.Request.Context(), c.Param("game_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

// @Summary Claims a square
// @Description Charges the entry fee. The game starts when the last square is taken.
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Param square body models.SquareSelection true "Square number, 0 to 9"
// @Success 200 {object} object{message=string,square_number=int,activated=bool,game=models.Game}
// @Failure 400 {object} object{error=string,code=string}
// @Failure 402 {object} object{error=string,code=string}
// @Failure 409 {object} object{error=string,code=string}
// @Router /auth/games/{game_id}/join [post]
// @Security ApiKeyAuth
func JoinGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req models.SquareSelection
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "square_number is required")
			return
		}

		res, err := engine.Join(c.Request.Context(), c.Param("game_id"), userID, *req.SquareNumber)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Square " + strconv.Itoa(res.SquareNumber) + " claimed successfully",
			"square_number": res.SquareNumber,
			"activated":     res.Activated,
			"game":          res.Game,
		})
	}
}

// @Summary Leaves a pending game
// @Description Frees every square the caller holds and refunds them
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Success 200 {object} object{message=string,squares=[]int,refunded=number}
// @Failure 409 {object} object{error=string,code=string}
// @Router /auth/games/{game_id}/leave [post]
// @Security ApiKeyAuth
func LeaveGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		res, err := engine.Leave(c.Request.Context(), c.Param("game_id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Left the game successfully",
			"squares":  res.Squares,
			"refunded": res.Refunded,
		})
	}
}

// @Summary Deletes a pending game
// @Description Only the creator can delete; every entrant is refunded
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Success 200 {object} object{message=string,refunded_entries=int,refunded=number}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Failure 409 {object} object{error=string,code=string}
// @Router /auth/games/{game_id} [delete]
// @Security ApiKeyAuth
func DeleteGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		res, err := engine.Delete(c.Request.Context(), c.Param("game_id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":          "Game deleted successfully",
			"refunded_entries": res.RefundedEntries,
			"refunded":         res.Refunded,
		})
	}
}

// @Summary Starts a game early
// @Description The creator can start a pending game with at least one claimed square
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Success 200 {object} models.Game
// @Failure 403 {object} object{error=string,code=string}
// @Failure 409 {object} object{error=string,code=string}
// @Failure 503 {object} object{error=string,code=string}
// @Router /auth/games/{game_id}/start [post]
// @Security ApiKeyAuth
func StartGame(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		game, err := engine.Start(c.Request.Context(), c.Param("game_id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

// @Summary Records a quarter score
// @Description Pays the holder of the winning square. The fourth quarter completes the game.
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game"
// @Param score body models.ScoreSubmission true "Quarter and score, e.g. Q1 and 21-17"
// @Success 200 {object} squares.ScoreResult
// @Failure 400 {object} object{error=string,code=string}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 409 {object} object{error=string,code=string}
// @Router /auth/games/{game_id}/score [post]
// @Security ApiKeyAuth
func RecordScore(engine *squares.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req models.ScoreSubmission
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quarter and score are required")
			return
		}

		res, err := engine.RecordScore(c.Request.Context(), c.Param("game_id"), userID, req.Quarter, req.Score)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
