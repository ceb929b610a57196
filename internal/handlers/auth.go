package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/craftfolio/craftfolio-backend/internal/database"
	"github.com/craftfolio/craftfolio-backend/internal/middleware"
	"github.com/craftfolio/craftfolio-backend/internal/models"
	"github.com/craftfolio/craftfolio-backend/internal/services"
	"github.com/craftfolio/craftfolio-backend/pkg/utils"
)

const passwordResetWindow = 10 * time.Minute

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// AuthResponse is the envelope for signup/login/me.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

func usersCollection() *mongo.Collection {
	return database.DB.Collection("users")
}

// Signup registers a new account and returns a session token.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := usersCollection().CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "User with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	now := time.Now()
	user := models.User{
		ID:                     primitive.NewObjectID(),
		CreatedAt:              now,
		UpdatedAt:              now,
		Name:                   req.Username,
		Email:                  req.Email,
		Password:               hashed,
		Role:                   models.RoleUser,
		IsActive:               true,
		EmailVerificationToken: utils.RandomToken(),
		Preferences:            models.DefaultPreferences(),
	}

	if _, err := usersCollection().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.GenerateToken(user.ID.Hex(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user.PublicProfile(),
		Token:   token,
	})
}

// Login authenticates and returns a token whose lifetime depends on rememberMe.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		// Same message whether the account exists or not.
		writeError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is deactivated. Please contact support.")
		return
	}

	now := time.Now()
	_, err = usersCollection().UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"lastLogin": now, "updatedAt": now},
		"$inc": bson.M{"loginCount": 1},
	})
	if err != nil {
		log.Printf("failed to record login for %s: %v", user.ID.Hex(), err)
	}
	user.LastLogin = now

	token, err := services.GenerateToken(user.ID.Hex(), req.RememberMe)
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user.PublicProfile(),
		Token:   token,
	})
}

// Me returns the authenticated user's profile.
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, User: user.PublicProfile()})
}

type UpdateProfileRequest struct {
	Username    *string                `json:"username,omitempty"`
	Email       *string                `json:"email,omitempty"`
	Avatar      *string                `json:"avatar,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// UpdateProfile updates username/email/avatar and merges preferences
// key-by-key. Changing the email resets verification.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	set := bson.M{"updatedAt": time.Now()}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		set["name"] = strings.TrimSpace(*req.Username)
	}

	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
		if newEmail != "" && newEmail != user.Email {
			count, err := usersCollection().CountDocuments(ctx, bson.M{"email": newEmail})
			if err != nil {
				writeError(w, http.StatusInternalServerError, MsgServerError)
				return
			}
			if count > 0 {
				writeError(w, http.StatusBadRequest, "Email is already in use")
				return
			}
			set["email"] = newEmail
			set["emailVerified"] = false
			set["emailVerificationToken"] = utils.RandomToken()
		}
	}

	if req.Avatar != nil {
		set["avatar"] = *req.Avatar
	}

	// Preferences merge key-by-key; untouched keys keep their stored values.
	for k, v := range req.Preferences {
		switch k {
		case "theme", "notifications", "autoSave", "autoSaveInterval":
			set["preferences."+k] = v
		}
	}

	if err := usersCollection().FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}).Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user.PublicProfile(),
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword verifies the current password before replacing it.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password) {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	_, err = usersCollection().UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"password": hashed, "updatedAt": time.Now()},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password changed successfully"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"` // exposed outside production only
}

// ForgotPassword issues a reset token valid for ten minutes. The response is
// identical whether or not the email exists.
func ForgotPassword(isProduction bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" {
			writeError(w, http.StatusBadRequest, "Email is required")
			return
		}

		resp := ForgotPasswordResponse{
			Success: true,
			Message: "If an account exists for that email, a reset link has been sent",
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token := utils.RandomToken()
		expires := time.Now().Add(passwordResetWindow)

		err := usersCollection().FindOneAndUpdate(ctx,
			bson.M{"email": email, "isActive": true},
			bson.M{"$set": bson.M{
				"passwordResetToken":   token,
				"passwordResetExpires": expires,
				"updatedAt":            time.Now(),
			}},
		).Err()
		if err == nil && !isProduction {
			resp.ResetToken = token
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ResetPassword consumes the unexpired reset token from the URL. The token
// filter uses a time range check so an expired token behaves exactly like
// an unknown one, and the clear happens in the same update as the password
// write.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Reset token is required")
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := usersCollection().FindOneAndUpdate(ctx,
		bson.M{
			"passwordResetToken":   token,
			"passwordResetExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": hashed, "updatedAt": time.Now()},
			"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
		},
	)
	if res.Err() != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password reset successfully"})
}

// VerifyEmail marks the account verified when the token from the URL
// matches.
func VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := usersCollection().FindOneAndUpdate(ctx,
		bson.M{"emailVerificationToken": token},
		bson.M{
			"$set":   bson.M{"emailVerified": true, "updatedAt": time.Now()},
			"$unset": bson.M{"emailVerificationToken": ""},
		},
	)
	if res.Err() != nil {
		writeError(w, http.StatusBadRequest, "Invalid verification token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Email verified successfully"})
}

type UserAnalyticsResponse struct {
	Success   bool                 `json:"success"`
	Analytics models.UserAnalytics `json:"analytics"`
}

// GetUserAnalytics returns the caller's own usage analytics.
func GetUserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, UserAnalyticsResponse{Success: true, Analytics: user.Analytics})
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// DeleteAccount deactivates the account after confirming the password. The
// document stays for audit; login rejects deactivated accounts.
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required to delete account")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		writeError(w, http.StatusBadRequest, "Password is incorrect")
		return
	}

	_, err := usersCollection().UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Account deleted successfully"})
}
