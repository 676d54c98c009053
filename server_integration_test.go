package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gelojavonitalla/idmc-gcfsm-sub004/pkg/receipt"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	ocrEngine = receipt.New(receipt.NewTesseract(), receipt.NewImagingRaster())
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register staff user
	regBody, _ := json.Marshal(map[string]string{"username": "staff1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "staff1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create a registration
	newReg, _ := json.Marshal(map[string]any{"full_name": "Juan Dela Cruz", "email": "juan@example.com", "fee": 2500})
	resp = performRequest(r, http.MethodPost, "/registrations", bytes.NewBuffer(newReg), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create registration failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var regResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &regResp)
	regID := regResp["id"].(float64)

	// 4. Parse already-recognized receipt text
	parseBody, _ := json.Marshal(map[string]string{
		"text": "Transfer amount PHP 2,500.00 Ref No. ABC123456 Date: Sep 21, 2025 10:20 AM BDO to BPI",
	})
	resp = performRequest(r, http.MethodPost, "/receipts/parse", bytes.NewBuffer(parseBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("parse failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var suggestion map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &suggestion)
	if suggestion["suggestedAmount"].(float64) != 2500 {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}

	// 5. Upload a receipt image (multipart)
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, _ := mw.CreateFormFile("file", "receipt.png")
	_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/receipts", buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var upResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &upResp)
	receiptID := upResp["id"].(float64)

	// 6. Confirm the receipt against the registration
	confBody, _ := json.Marshal(map[string]any{
		"registration_id": regID, "amount": 2500, "reference": "ABC123456", "bank": "BDO",
	})
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/receipts/%.0f/confirm", receiptID), bytes.NewBuffer(confBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("confirm failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Registration should now be paid
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/registrations/%.0f", regID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get registration failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var reg map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &reg)
	if reg["Status"] != "paid" {
		t.Fatalf("expected paid registration, got %+v", reg["Status"])
	}

	// 8. Summaries
	resp = performRequest(r, http.MethodGet, "/registrations/summary", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("registration summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/payments/summary", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("payment summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/registrations", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
