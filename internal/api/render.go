// render.go - Response encoding for parse results (JSON, msgpack, HTML table)
package api

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
	formatHTML    = "html"

	mimeMsgpack = "application/msgpack"
)

// sessionResponse is the wire shape of a parsed session.
type sessionResponse struct {
	SessionID  string          `json:"sessionId" msgpack:"sessionId"`
	FileName   string          `json:"fileName,omitempty" msgpack:"fileName,omitempty"`
	Mode       models.Mode     `json:"mode" msgpack:"mode"`
	SortKey    models.SortKey  `json:"sortKey" msgpack:"sortKey"`
	Records    []models.Record `json:"records" msgpack:"records"`
	Count      int             `json:"count" msgpack:"count"`
	Note       string          `json:"note,omitempty" msgpack:"note,omitempty"`
	Reports    int             `json:"reports,omitempty" msgpack:"reports,omitempty"`
	ReportTime *time.Time      `json:"reportTime,omitempty" msgpack:"reportTime,omitempty"`
}

func newSessionResponse(sess models.ReportSession) sessionResponse {
	return sessionResponse{
		SessionID:  sess.ID,
		FileName:   sess.FileName,
		Mode:       sess.Result.Mode,
		SortKey:    sess.SortKey,
		Records:    sess.Result.Records,
		Count:      sess.Result.Count,
		Note:       sess.Result.Note,
		Reports:    sess.Result.Reports,
		ReportTime: sess.Result.ReportTime,
	}
}

// responseFormat picks the encoding from ?format= or the Accept header.
func responseFormat(c echo.Context) string {
	switch strings.ToLower(c.QueryParam("format")) {
	case formatJSON:
		return formatJSON
	case formatMsgpack:
		return formatMsgpack
	case formatHTML:
		return formatHTML
	}

	accept := c.Request().Header.Get(echo.HeaderAccept)
	switch {
	case strings.Contains(accept, mimeMsgpack), strings.Contains(accept, "application/x-msgpack"):
		return formatMsgpack
	case strings.HasPrefix(accept, echo.MIMETextHTML):
		return formatHTML
	}
	return formatJSON
}

// respondSession writes a session in the negotiated format.
func respondSession(c echo.Context, status int, sess models.ReportSession) error {
	resp := newSessionResponse(sess)

	switch responseFormat(c) {
	case formatMsgpack:
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(status, mimeMsgpack, data)
	case formatHTML:
		html, err := renderTable(resp)
		if err != nil {
			return NewInternalError("failed to render table", err)
		}
		return c.HTML(status, html)
	}
	return c.JSON(status, resp)
}

var tableTemplate = template.Must(template.New("table").Parse(`{{if .NoReports}}<p style='color:red;'>No valid reports found in file.</p>{{else}}<table data-session="{{.SessionID}}">
  <thead>
    <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
  </thead>
  <tbody>
{{range .Rows}}    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}  </tbody>
  <tfoot><tr><td colspan="{{len .Headers}}">{{.Footer}}</td></tr></tfoot>
</table>{{end}}`))

type tableView struct {
	SessionID string
	NoReports bool
	Headers   []string
	Rows      [][]string
	Footer    string
}

var (
	snapshotHeaders  = []string{"MAC", "Rate", "IP", "Layer", "Parent", "FW", "RSSI", "Heap"}
	aggregateHeaders = []string{"MAC", "Rate", "RSSI (Avg)", "Parent"}
)

// renderTable renders the HTML fragment the viewer page injects.
func renderTable(resp sessionResponse) (string, error) {
	view := tableView{
		SessionID: resp.SessionID,
		NoReports: resp.Note == models.NoteNoReports,
		Rows:      make([][]string, 0, len(resp.Records)),
	}

	if resp.Mode == models.ModeAggregate {
		view.Headers = aggregateHeaders
		view.Footer = fmt.Sprintf("Total devices shown: %d", len(resp.Records))
		for _, r := range resp.Records {
			view.Rows = append(view.Rows, []string{
				r.Identifier,
				strconv.FormatFloat(r.Rate, 'f', 2, 64),
				strconv.FormatFloat(r.Signal, 'f', 2, 64),
				r.Parent,
			})
		}
	} else {
		view.Headers = snapshotHeaders
		view.Footer = fmt.Sprintf("Total MAC IDs: %d", len(resp.Records))
		for _, r := range resp.Records {
			view.Rows = append(view.Rows, []string{
				r.Identifier,
				strconv.FormatFloat(r.Rate, 'f', -1, 64),
				extra(r, 0),
				extra(r, 1),
				r.Parent,
				extra(r, 2),
				strconv.FormatFloat(r.Signal, 'f', -1, 64),
				extra(r, 3),
			})
		}
	}

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extra(r models.Record, i int) string {
	if i < len(r.Extras) {
		return r.Extras[i]
	}
	return ""
}
