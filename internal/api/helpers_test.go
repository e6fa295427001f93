package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/session"
	"github.com/stretchr/testify/require"
)

const header = "MAC                Rate  IP          Layer  Parent             FW      RSSI  Heap\n" +
	"--------------------------------------------------------------------------------"

// twoReportLog holds two reports; the second is the latest.
var twoReportLog = strings.Join([]string{
	"2025-09-25 06:02:11.086512",
	"",
	header,
	"aa:bb:cc:dd:ee:ff  1.00  10.0.0.2  1  NA  v1.2.0  -40  120000",
	"Devices reporting: 1",
	"2025-09-25 06:03:11.000001",
	"",
	header,
	"aa:bb:cc:dd:ee:ff  1.00  10.0.0.2  1  NA  v1.2.0  -41  119000",
	"11:22:33:44:55:66  3.00  10.0.0.3  2  aa:bb:cc:dd:ee:ff  v1.2.1  -58  117000",
	"de:ad:be:ef:00:01  0.75  10.0.0.4  3  11:22:33:44:55:66  v1.2.1  -71  90000",
	"Devices reporting: 3",
}, "\n")

var looseLog = strings.Join([]string{
	"aa:bb:cc:dd:ee:ff 10.0 NA 3 NA 1 -40",
	"11:22:33:44:55:66 4.50 0.5 2 aa:bb:cc:dd:ee:ff 1 -70",
	"11:22:33:44:55:66 5.50 0.5 2 de:ad:be:ef:00:01 1 -60",
}, "\n")

// newMultipartRequest builds a POST with a "file" part plus form fields.
func newMultipartRequest(t *testing.T, target, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newSessions() *session.Manager {
	return session.NewManager(10)
}

// requireAPIError asserts err is an *APIError with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) *APIError {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected APIError, got %T", err)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
