package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotPayload struct {
	Start string `json:"jam_mulai" binding:"required,hhmm"`
	Date  string `json:"tanggal" binding:"required,ymd"`
	Rows  []struct {
		Status string `json:"status" binding:"required,oneof=H S I A"`
	} `json:"rows" binding:"required,min=1,dive"`
}

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var dst slotPayload
	return Bind(c, &dst)
}

func TestBindAcceptsValidPayload(t *testing.T) {
	fields := bindBody(t, `{"jam_mulai":"07:30","tanggal":"2024-01-15","rows":[{"status":"H"}]}`)
	assert.Nil(t, fields)

	fields = bindBody(t, `{"jam_mulai":"23:59","tanggal":"2024-01-15T08:00:00+07:00","rows":[{"status":"A"}]}`)
	assert.Nil(t, fields)
}

func TestBindReportsFieldErrors(t *testing.T) {
	fields := bindBody(t, `{"jam_mulai":"7:30","tanggal":"15-01-2024","rows":[{"status":"H"},{"status":"X"}]}`)
	require.NotNil(t, fields)

	assert.Equal(t, "jam_mulai must be a time in HH:MM format", fields["jam_mulai"])
	assert.Equal(t, "tanggal must be a date in YYYY-MM-DD format", fields["tanggal"])
	assert.Contains(t, fields, "rows[1].status")
}

func TestBindMalformedJSON(t *testing.T) {
	fields := bindBody(t, `{"jam_mulai":`)
	assert.Contains(t, fields, "detail")
}
