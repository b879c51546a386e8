package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextKeyRequestID, "req-123")

	Fail(c, http.StatusConflict, ErrAlreadyTaken)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("error body missing")
	}
	if resp.Error.Code != ErrAlreadyTaken {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrAlreadyTaken)
	}
	if resp.Error.Message != GetMessage(ErrAlreadyTaken) {
		t.Errorf("message = %q", resp.Error.Message)
	}
	if resp.Metadata.RequestID != "req-123" {
		t.Errorf("request_id = %q, want req-123", resp.Metadata.RequestID)
	}
	if resp.Metadata.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Success(c, http.StatusOK, gin.H{"submitted": true})

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}
	// No request-ID middleware ran; buildMetadata must still fill one in.
	if resp.Metadata.RequestID == "" {
		t.Error("request_id missing without middleware")
	}
}

func TestGetMessageUnknownCode(t *testing.T) {
	if msg := GetMessage(ErrCode("NO_SUCH_CODE")); msg == "" {
		t.Error("unknown code must still produce a message")
	}
}
