package controllers

import (
	"Squares/middleware"
	"Squares/models"
	"Squares/services/store"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AuthSettings is what the account handlers need from the config
type AuthSettings struct {
	JWTSecret       string
	TokenTTL        time.Duration
	StartingBalance decimal.Decimal
}

// @Summary Creates a new account
// @Description Registers a user with the starting mock balance and logs them in
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.SignUpRequest true "New account"
// @Success 201 {object} object{message=string,token=string,user=models.Account}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /signup [post]
func SignUp(st store.Store, auth AuthSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignUpRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "Invalid request data: "+err.Error())
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)
		if email == "" || name == "" || !strings.Contains(email, "@") {
			badRequest(c, "A valid email and name are required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}

		account := &models.Account{
			UserID:       "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			MockBalance:  auth.StartingBalance,
			CreatedAt:    time.Now().UTC(),
		}
		if err := st.CreateAccount(c.Request.Context(), account); err != nil {
			if errors.Is(err, store.ErrAccountExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists", "code": "account_exists"})
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		token, ok := startSession(c, auth, account)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "token": token, "user": account})
	}
}

// @Summary Logs in
// @Description Checks the credentials, returns a bearer token and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} object{token=string,user=models.Account}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(st store.Store, auth AuthSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "Parameters can't be empty")
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		account, err := st.GetAccountByEmail(c.Request.Context(), email)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				c.Error(err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		token, ok := startSession(c, auth, account)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": account})
	}
}

// startSession issues the bearer token and stores the identity in the cookie session
func startSession(c *gin.Context, auth AuthSettings, account *models.Account) (string, bool) {
	token, err := middleware.GenerateToken(auth.JWTSecret, account.UserID, account.Name, auth.TokenTTL)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return "", false
	}

	session := sessions.Default(c)
	session.Set(middleware.UserIDKey, account.UserID)
	session.Set(middleware.UserNameKey, account.Name)
	if err := session.Save(); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session!"})
		return "", false
	}
	return token, true
}

// @Summary Logs out
// @Description Deletes the cookie session. Bearer tokens stay valid until they expire.
// @Tags auth
// @Produce json
// @Param Authorization header string false "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Current user
// @Description Returns the logged in account and its mock balance
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} models.Account
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func Me(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, err := middleware.CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		account, err := st.GetAccount(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, account)
	}
}
