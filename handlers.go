package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gelojavonitalla/idmc-gcfsm-sub004/models"
	"github.com/gelojavonitalla/idmc-gcfsm-sub004/pkg/receipt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/registrations", createRegistrationHandler)
	authGroup.GET("/registrations", listRegistrationsHandler)
	authGroup.GET("/registrations/summary", registrationSummaryHandler)
	authGroup.GET("/registrations/:id", getRegistrationHandler)
	authGroup.POST("/registrations/:id/payments", createPaymentHandler)
	authGroup.GET("/payments", listPaymentsHandler)
	authGroup.GET("/payments/summary", paymentSummaryHandler)
	authGroup.POST("/receipts", uploadReceiptHandler)
	authGroup.POST("/receipts/parse", parseReceiptTextHandler)
	authGroup.GET("/receipts", listReceiptsHandler)
	authGroup.GET("/receipts/:id", getReceiptHandler)
	authGroup.POST("/receipts/:id/confirm", confirmReceiptHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken builds a signed JWT for the user. Role name is resolved
// from RoleID (we only store role_id).
func signAccessToken(user models.User, ttl time.Duration) (string, error) {
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := signAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// createRegistrationHandler records a new attendee.
func createRegistrationHandler(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Church   string `json:"church"`
		Category string `json:"category"`
		Fee      int64  `json:"fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := req.Category
	if category == "" {
		category = "regular"
	}
	reg := models.Registration{
		Code:     strings.ToUpper(uuid.NewString()[:8]),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Church:   req.Church,
		Category: category,
		Fee:      req.Fee,
		Status:   models.RegistrationPending,
	}
	if err := db.Create(&reg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": reg.ID, "code": reg.Code})
}

// listRegistrationsHandler lists recent registrations, optionally by status.
func listRegistrationsHandler(c *gin.Context) {
	var items []models.Registration
	q := db.Model(&models.Registration{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getRegistrationHandler(c *gin.Context) {
	var reg models.Registration
	if err := db.Preload("Payments").First(&reg, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, reg)
}

// registrationSummaryHandler returns attendee counts grouped by status.
func registrationSummaryHandler(c *gin.Context) {
	type Result struct {
		Status string
		Total  int64
	}
	var results []Result
	rows, err := db.Model(&models.Registration{}).
		Select("status, count(*) as total").Group("status").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		rows.Scan(&r.Status, &r.Total)
		results = append(results, r)
	}
	c.JSON(http.StatusOK, results)
}

// createPaymentHandler records a manually verified payment for a registration.
func createPaymentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var reg models.Registration
	if err := db.First(&reg, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return
	}
	var req struct {
		Amount    float64 `json:"amount" binding:"required"`
		Reference string  `json:"reference"`
		Bank      string  `json:"bank"`
		PaidAt    string  `json:"paid_at"` // optional ISO8601
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := models.Payment{
		RegistrationID: reg.ID,
		Amount:         req.Amount,
		Reference:      req.Reference,
		Bank:           req.Bank,
		VerifiedBy:     user.Username,
	}
	if req.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, req.PaidAt); err == nil {
			p.PaidAt = &t
		}
	}
	if err := db.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	markPaidIfCovered(&reg)
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// markPaidIfCovered flips the registration to paid once verified payments cover the fee.
func markPaidIfCovered(reg *models.Registration) {
	var total float64
	db.Model(&models.Payment{}).Where("registration_id = ?", reg.ID).
		Select("coalesce(sum(amount),0)").Scan(&total)
	if total >= float64(reg.Fee) && reg.Status != models.RegistrationPaid {
		db.Model(reg).Update("status", models.RegistrationPaid)
	}
}

func listPaymentsHandler(c *gin.Context) {
	var items []models.Payment
	q := db.Model(&models.Payment{})
	if rid := c.Query("registration_id"); rid != "" {
		q = q.Where("registration_id = ?", rid)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// paymentSummaryHandler returns a simple sum of Amount grouped by month
func paymentSummaryHandler(c *gin.Context) {
	type Result struct {
		Month string
		Total float64
	}
	var results []Result
	// Use to_char for Postgres to group by YYYY-MM
	rows, err := db.Model(&models.Payment{}).
		Select("to_char(created_at, 'YYYY-MM') as month, sum(amount) as total").
		Group("month").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		rows.Scan(&r.Month, &r.Total)
		results = append(results, r)
	}
	c.JSON(http.StatusOK, results)
}

// uploadReceiptHandler accepts a receipt image, stores it, runs the
// extraction engine, and returns the suggestion for the verification form.
func uploadReceiptHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	ct := file.Header.Get("Content-Type")
	baseDir := filepath.Join(uploadBaseDir(), "receipts")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	// stored under a uuid name so colliding client filenames never clobber each other
	stored := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	fullPath := filepath.Join(baseDir, stored)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	suggestion := ocrEngine.Suggest(c.Request.Context(), receipt.Input{ImagePath: fullPath})

	rec := models.Receipt{
		FileName:          file.Filename,
		StorePath:         filepath.Join("receipts", stored),
		ContentType:       ct,
		RawText:           suggestion.RawText,
		SuggestedAmount:   suggestion.Amount,
		SuggestedRef:      suggestion.Reference,
		SuggestedDateTime: suggestion.DateTime,
		SuggestedBank:     suggestion.Bank,
	}
	if suggestion.RawText == "" {
		rec.Failed = true
		rec.FailedReason = "no text recognized"
	}
	if rid := c.PostForm("registration_id"); rid != "" {
		if parsed, err := strconv.ParseUint(rid, 10, 64); err == nil && parsed != 0 {
			pv := uint(parsed)
			rec.RegistrationID = &pv
		}
	}
	if err := db.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "store_path": rec.StorePath, "suggestion": suggestion})
}

// parseReceiptTextHandler runs field extraction over already-recognized text.
// Nothing is persisted; this backs the manual paste box on the verification form.
func parseReceiptTextHandler(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	suggestion := ocrEngine.Suggest(c.Request.Context(), receipt.Input{Text: req.Text})
	c.JSON(http.StatusOK, suggestion)
}

func listReceiptsHandler(c *gin.Context) {
	var items []models.Receipt
	q := db.Model(&models.Receipt{})
	if c.Query("unmatched") == "1" {
		q = q.Where("registration_id IS NULL")
	}
	if err := q.Order("id desc").Limit(100).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getReceiptHandler(c *gin.Context) {
	var rec models.Receipt
	if err := db.First(&rec, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// confirmReceiptHandler turns a receipt's human-reviewed fields into a
// verified payment. The staff member may override any suggested value; the
// suggestion itself is never committed unreviewed.
func confirmReceiptHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var rec models.Receipt
	if err := db.First(&rec, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
		return
	}
	var req struct {
		RegistrationID uint    `json:"registration_id" binding:"required"`
		Amount         float64 `json:"amount" binding:"required"`
		Reference      string  `json:"reference"`
		Bank           string  `json:"bank"`
		PaidAt         string  `json:"paid_at"` // optional ISO8601
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var reg models.Registration
	if err := db.First(&reg, req.RegistrationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return
	}
	rid := rec.ID
	p := models.Payment{
		RegistrationID: reg.ID,
		Amount:         req.Amount,
		Reference:      req.Reference,
		Bank:           req.Bank,
		ReceiptID:      &rid,
		VerifiedBy:     user.Username,
	}
	if req.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, req.PaidAt); err == nil {
			p.PaidAt = &t
		}
	}
	if err := db.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	rec.RegistrationID = &reg.ID
	db.Save(&rec)
	markPaidIfCovered(&reg)
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "registration_status": reg.Status})
}
