package handlers

import (
	"errors"
	"net/http"
	"strings"

	"garden_panel/internal/repository"

	"github.com/gin-gonic/gin"
)

const errInvalidCredentials = "invalid credentials"

// Credentials payload shared by sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

// bindCredentials binds and trims the body; it writes a 400 and returns false on failure.
func (h *Handler) bindCredentials(c *gin.Context) (authCredentials, bool) {
	var in authCredentials
	if err := c.ShouldBindJSON(&in); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return in, false
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + "username is blank"})
		return in, false
	}
	return in, true
}

// @Summary      Register operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	in, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	id, err := h.services.SignUp(in.Username, in.Password)
	switch {
	case errors.Is(err, repository.ErrOperatorExists):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	case err != nil:
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "username", in.Username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.log != nil {
		h.log.Infow("operator_registered", "operator_id", id, "username", in.Username)
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	in, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.services.GenerateToken(in.Username, in.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", in.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
