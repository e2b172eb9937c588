package filter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/email-signature-parser/internal/adapters/store"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/htmltext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, from, body string) string {
	t.Helper()
	data, err := json.Marshal(parseRequest{From: from, Body: body})
	require.NoError(t, err)
	return string(data)
}

func TestHTTPFilterHealth(t *testing.T) {
	f := NewHTTPFilter(newTestService(t, nil), zap.NewNop(), "")

	rec := doRequest(t, f.Router(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHTTPFilterParse(t *testing.T) {
	f := NewHTTPFilter(newTestService(t, nil), zap.NewNop(), "")
	router := f.Router()

	htmlBody := "<html><body><div>Hi there,<br><br>Thanks for your message.<br><br>Best regards,<br>John Doe<br>Senior Developer<br>" +
		"Tech Company Inc.<br>Phone: +1 (555) 123-4567</div></body></html>"

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "text", path: "/parse/text", body: jsonRequest(t, "John Doe <jdoe@techcompany.com>", signedBody), wantStatus: http.StatusOK},
		{name: "html", path: "/parse/html", body: jsonRequest(t, "John Doe <jdoe@techcompany.com>", htmlBody), wantStatus: http.StatusOK},
		{name: "eml", path: "/parse/eml", body: signedMessage, wantStatus: http.StatusOK},
		{name: "malformed json", path: "/parse/text", body: "{", wantStatus: http.StatusBadRequest},
		{name: "missing sender", path: "/parse/text", body: jsonRequest(t, "", signedBody), wantStatus: http.StatusBadRequest},
		{name: "html without markup", path: "/parse/html", body: jsonRequest(t, "jdoe@techcompany.com", "plain text"), wantStatus: http.StatusBadRequest},
		{name: "automated sender", path: "/parse/text", body: jsonRequest(t, "noreply@techcompany.com", signedBody), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantStatus != http.StatusOK {
				var resp errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error)
				return
			}

			var sig core.ParsedSignature
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sig))
			assert.Equal(t, "John Doe", sig.Name)
			assert.Equal(t, "jdoe@techcompany.com", sig.EmailAddress)
			assert.Equal(t, "Tech Company Inc.", sig.CompanyName)
		})
	}
}

func TestHTTPFilterContacts(t *testing.T) {
	contacts := store.NewMemoryStore(zap.NewNop(), time.Hour)
	defer contacts.Stop()

	f := NewHTTPFilter(newTestService(t, contacts), zap.NewNop(), "")
	router := f.Router()

	rec := doRequest(t, router, http.MethodGet, "/contacts/jdoe@techcompany.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/parse/eml", signedMessage)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/contacts/jdoe@techcompany.com", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var contact core.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contact))
	assert.Equal(t, "jdoe@techcompany.com", contact.EmailAddress)
	require.NotNil(t, contact.Signature)
	assert.Equal(t, "Tech Company Inc.", contact.Signature.CompanyName)
}

func TestHTTPFilterContactsDisabled(t *testing.T) {
	f := NewHTTPFilter(newTestService(t, nil), zap.NewNop(), "")

	rec := doRequest(t, f.Router(), http.MethodGet, "/contacts/jdoe@techcompany.com", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidFrom, http.StatusBadRequest},
		{core.ErrEmptyBody, http.StatusBadRequest},
		{fmt.Errorf("failed to convert html body: %w", htmltext.ErrNoHTMLContent), http.StatusBadRequest},
		{core.ErrAutomatedSender, http.StatusUnprocessableEntity},
		{core.ErrMeetingInvite, http.StatusUnprocessableEntity},
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrExpired, http.StatusGone},
		{core.ErrStoreDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHTTPFilterStartStop(t *testing.T) {
	f := NewHTTPFilter(newTestService(t, nil), zap.NewNop(), "127.0.0.1:0")

	assert.NoError(t, f.Stop())
	require.NoError(t, f.Start())
	assert.NoError(t, f.Stop())
}
