package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/middleware"
	"github.com/noah-isme/internship-api/internal/models"
)

func newTestContext(method, target string, body io.Reader, caller *models.Caller) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, body)
	c.Request = req
	if caller != nil {
		c.Set(middleware.ContextCallerKey, caller)
	}
	return c, w
}

func jsonContext(method, target string, payload interface{}, caller *models.Caller) (*gin.Context, *httptest.ResponseRecorder) {
	raw, _ := json.Marshal(payload)
	c, w := newTestContext(method, target, bytes.NewReader(raw), caller)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(w *httptest.ResponseRecorder) envelope {
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}
