package user

import (
	"errors"
	"net/http"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService UserServiceInterface
	issuer      *auth.Issuer
}

func NewUserController(userService UserServiceInterface, issuer *auth.Issuer) *UserController {
	return &UserController{
		userService: userService,
		issuer:      issuer,
	}
}

// Register handles user registration and starts a session.
func (a *UserController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=30"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters and password at least 6"})
		return
	}

	newUser, err := a.userService.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if err := a.startSession(c, newUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registered successfully",
		"username": newUser.Username,
	})
}

// Login handles user login and sets the session cookie.
func (a *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	loggedIn, err := a.userService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.GlobalMetrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			// Same response whether the username or the password was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if err := a.startSession(c, loggedIn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in successfully",
		"username": loggedIn.Username,
	})
}

// Logout clears the session cookie. There is no server-side revocation:
// the token itself remains valid until its expiry.
func (a *UserController) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *UserController) startSession(c *gin.Context, u *User) error {
	token, err := a.issuer.Issue(u.ID, u.Username)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue session token")
		return err
	}

	auth.SetSessionCookie(c, token, a.issuer.TTL())
	observability.GlobalMetrics.SessionsIssuedTotal.Inc()
	return nil
}
