package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Musharaf05/HabitFlow/authentication/middleware"
	"github.com/Musharaf05/HabitFlow/authentication/util"
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
)

const sessionTTL = 24 * time.Hour

// AuthController handles signup, login, logout and account settings.
type AuthController struct {
	Users     repositories.UserStore
	JWTSecret string
}

func NewAuthController(users repositories.UserStore, secret string) *AuthController {
	return &AuthController{Users: users, JWTSecret: secret}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type settingsRequest struct {
	AccentColor *string `json:"accent_color"`
	Password    *string `json:"password"`
}

func (a *AuthController) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   true,
	})
}

// Signup handles user registration.
func (a *AuthController) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "username, email and password are required"})
	}

	if _, err := a.Users.ByUsername(req.Username); err == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Username already exists"})
	}
	if _, err := a.Users.ByEmail(req.Email); err == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}
	if err := a.Users.Create(&user); err != nil {
		// Two signups can race the same name past the existence checks;
		// the unique index decides and the loser gets the same 400.
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Username or email already exists"})
		}
		log.Error().Err(err).Msg("creating user")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := util.CreateAccessToken(&user, a.JWTSecret, sessionTTL)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}
	a.setSessionCookie(c, token, time.Now().Add(sessionTTL))

	log.Info().Str("user", user.Username).Msg("user registered")
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Signup successful"})
}

// Login checks credentials and opens a session.
func (a *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	user, err := a.Users.ByUsername(req.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		// The login form accepts an email in the username field.
		user, err = a.Users.ByEmail(req.Username)
	}
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := util.CreateAccessToken(user, a.JWTSecret, sessionTTL)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}
	a.setSessionCookie(c, token, time.Now().Add(sessionTTL))

	log.Info().Str("user", user.Username).Msg("user logged in")
	return c.JSON(fiber.Map{"message": "Login successful"})
}

// Logout clears the session cookie.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	a.setSessionCookie(c, "", time.Now().Add(-time.Hour))
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserKey).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := a.Users.ByID(userID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

// UpdateSettings changes the accent color and/or password.
func (a *AuthController) UpdateSettings(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserKey).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	user, err := a.Users.ByID(userID)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if req.AccentColor != nil {
		user.AccentColor = *req.AccentColor
	}
	if req.Password != nil {
		if *req.Password == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "password cannot be empty"})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		user.PasswordHash = string(hashed)
	}

	if err := a.Users.Update(user); err != nil {
		log.Error().Err(err).Msg("updating user settings")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
	}
	return c.JSON(fiber.Map{"message": "Settings updated"})
}
