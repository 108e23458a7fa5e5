package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testCSV = "date,geoloc_id,gender,age\n" +
	"2021-01-15,Canada,male,34\n" +
	"2021-02-10,Canada,female,7\n" +
	"2021-03-01,USA,male,52\n"

func uploadTestCSV(t *testing.T) string {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "linelist.csv")
	assert.NoError(t, err)
	fw.Write([]byte(testCSV))
	mw.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handleUpload(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp uploadResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Uid)
	return resp.Uid
}

func TestHandleUpload(t *testing.T) {
	uid := uploadTestCSV(t)

	ds, ok := registry.Get(uid)
	assert.True(t, ok)
	assert.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"date", "geoloc_id", "gender", "age"}, ds.Columns)
}

func TestHandleUploadRejectsGet(t *testing.T) {
	rec := httptest.NewRecorder()
	handleUpload(rec, httptest.NewRequest("GET", "/upload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyze(t *testing.T) {
	uid := uploadTestCSV(t)

	form := url.Values{}
	form.Set("uid", uid)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handleAnalyze(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Views, 15)

	geoloc := resp.Views["geoloc_chart"]
	assert.Empty(t, geoloc.Error)
	assert.Contains(t, geoloc.Table, "Canada")
	assert.Contains(t, geoloc.Caption, "'geoloc_id'")

	// fields absent from the upload fail view by view
	assert.NotEmpty(t, resp.Views["sample_source_type_distribution_chart"].Error)
}

func TestHandleAnalyzeWithFilters(t *testing.T) {
	uid := uploadTestCSV(t)

	filters, _ := json.Marshal(map[string]string{
		"select_geoloc_id_filterset1": "Canada",
	})
	form := url.Values{}
	form.Set("uid", uid)
	form.Set("datafilters2apply", string(filters))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handleAnalyze(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	geoloc := resp.Views["geoloc_chart"]
	assert.Contains(t, geoloc.Table, "Canada")
	assert.NotContains(t, geoloc.Table, "USA")
}

func TestHandleAnalyzeUnknownHandle(t *testing.T) {
	form := url.Values{}
	form.Set("uid", "4cb2cb48-0000-0000-0000-000000000000")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handleAnalyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExport(t *testing.T) {
	uid := uploadTestCSV(t)

	filters, _ := json.Marshal(map[string]string{
		"select_geoloc_id_filterset1": "usa",
	})
	form := url.Values{}
	form.Set("uid", uid)
	form.Set("datafilters2apply", string(filters))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/export", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handleExport(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "date,geoloc_id,gender,age", lines[0])
	assert.Contains(t, lines[1], "USA")
}

func TestHandleDashboardPage(t *testing.T) {
	uid := uploadTestCSV(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard?uid="+uid, nil)
	handleDashboard(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")
}
