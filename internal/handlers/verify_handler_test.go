package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windpermit/internal/models"
	"windpermit/internal/services"
)

type memVerifStore struct {
	records map[string]*models.VerificationRecord
}

func (m *memVerifStore) Upsert(email, codeHash string, issuedAt time.Time) error {
	m.records[email] = &models.VerificationRecord{Email: email, CodeHash: codeHash, IssuedAt: issuedAt}
	return nil
}

func (m *memVerifStore) GetByEmail(email string) (*models.VerificationRecord, error) {
	v, ok := m.records[email]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memVerifStore) MarkVerified(email string) error {
	v, ok := m.records[email]
	if !ok {
		return errors.New("no record")
	}
	v.Verified = true
	return nil
}

type memMailer struct {
	codes map[string]string
	fail  bool
}

func (m *memMailer) SendVerificationCode(email, code string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.codes[email] = code
	return nil
}

func (m *memMailer) SendPermitDecision(email, permitNumber, status string) error { return nil }

func newVerifyTestRouter() (*gin.Engine, *memMailer) {
	gin.SetMode(gin.TestMode)

	store := &memVerifStore{records: make(map[string]*models.VerificationRecord)}
	mailer := &memMailer{codes: make(map[string]string)}
	verif := services.NewVerificationService(store, mailer)

	h := NewVerifyHandler(verif, nil)

	r := gin.New()
	r.POST("/sendVerificationEmail", h.SendVerificationEmail)
	r.POST("/verifyCode", h.VerifyCode)
	return r, mailer
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendVerificationEmail(t *testing.T) {
	r, mailer := newVerifyTestRouter()

	w := postJSON(t, r, "/sendVerificationEmail", gin.H{"email": "eng@example.com", "name": "A"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Verification email sent!", resp["message"])

	// код не утекает в ответ, только в письмо
	code := mailer.codes["eng@example.com"]
	require.NotEmpty(t, code)
	assert.NotContains(t, w.Body.String(), code)
}

func TestSendVerificationEmail_BadPayload(t *testing.T) {
	r, _ := newVerifyTestRouter()

	w := postJSON(t, r, "/sendVerificationEmail", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/sendVerificationEmail", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendVerificationEmail_SMTPFailure(t *testing.T) {
	r, mailer := newVerifyTestRouter()
	mailer.fail = true

	w := postJSON(t, r, "/sendVerificationEmail", gin.H{"email": "eng@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerifyCode(t *testing.T) {
	r, mailer := newVerifyTestRouter()

	w := postJSON(t, r, "/sendVerificationEmail", gin.H{"email": "eng@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	code := mailer.codes["eng@example.com"]

	t.Run("wrong code", func(t *testing.T) {
		w := postJSON(t, r, "/verifyCode", gin.H{"email": "eng@example.com", "verificationCode": "000000"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid verification code.")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, r, "/verifyCode", gin.H{"email": "ghost@example.com", "verificationCode": "123456"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No record found for this email.")
	})

	t.Run("correct code", func(t *testing.T) {
		w := postJSON(t, r, "/verifyCode", gin.H{"email": "eng@example.com", "verificationCode": code})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Email verified successfully!")
	})

	t.Run("repeat check is idempotent", func(t *testing.T) {
		w := postJSON(t, r, "/verifyCode", gin.H{"email": "eng@example.com", "verificationCode": code})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
