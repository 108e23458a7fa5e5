// web_handler.go
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/epivizor/linelist_analyzer/config"
	"github.com/epivizor/linelist_analyzer/domain/models"
	"github.com/epivizor/linelist_analyzer/plot"
)

type uploadResponse struct {
	Uid      string                 `json:"uid"`
	Metadata *models.UploadMetadata `json:"metadata"`
}

type viewPayload struct {
	Caption string `json:"caption,omitempty"`
	Table   string `json:"table,omitempty"`
	Table2  string `json:"table2,omitempty"`
	Error   string `json:"error,omitempty"`
}

type analyzeResponse struct {
	Views    map[string]viewPayload `json:"views"`
	Warnings []string               `json:"warnings,omitempty"`
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Get the file from the form data
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	reader, err := openUpload(header.Filename, file)
	if err != nil {
		http.Error(w, "Error reading archive: "+err.Error(), http.StatusBadRequest)
		return
	}

	ds, err := LoadCSV(reader)
	if err != nil {
		http.Error(w, "Error parsing csv: "+err.Error(), http.StatusBadRequest)
		return
	}

	uid := registry.Put(ds)

	// keep the raw upload next to the parsed dataset for later inspection
	cfg := config.GetConfig()
	os.MkdirAll(filepath.Join(cfg.UploadDir, uid), 0755)
	if seeker, ok := file.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
		if dst, err := os.Create(filepath.Join(cfg.UploadDir, uid, header.Filename)); err == nil {
			io.Copy(dst, file)
			dst.Close()
		}
	}

	writeJSON(w, uploadResponse{Uid: uid, Metadata: ds.UploadMetadata()})
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, req, err := datasetAndRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dashboard, err := buildDashboard(ds, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := analyzeResponse{Views: map[string]viewPayload{}, Warnings: dashboard.Warnings}
	for key, view := range dashboard.Views {
		payload := viewPayload{Caption: view.Caption, Error: view.Error}
		if view.Group1 != nil {
			payload.Table = GenerateAggregateTable(view.Group1)
		}
		if view.Group2 != nil {
			payload.Table2 = GenerateAggregateTable(view.Group2)
		}
		if view.Temporal1 != nil {
			payload.Table = GenerateTemporalTable(view.Temporal1)
		}
		if view.Temporal2 != nil {
			payload.Table2 = GenerateTemporalTable(view.Temporal2)
		}
		resp.Views[key] = payload
	}
	writeJSON(w, resp)
}

// handleExport streams the rows matched by filter set #1 back as csv, the
// way the validation screen offers a filtered subset download.
func handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, req, err := datasetAndRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	work := ds.Copy()
	if len(req.FieldMapping) > 0 {
		work.ApplyFieldMapping(req.FieldMapping)
	}
	if work.HasColumn("hierarchical_subtype") {
		work.ExpandHierarchicalSubtype(req.Delimiter)
	}
	group := &Group{Name: "Group #1", Data: work}
	if hasFilterSet(req.DataFilters, "filterset1") {
		spec := parseFilterSpec(req.DataFilters, "filterset1")
		group, _, err = applyFilter(spec, work, "Group #1")
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="subset.csv"`)
	cw := csv.NewWriter(w)
	cw.Write(group.Data.Columns)
	record := make([]string, len(group.Data.Columns))
	for _, row := range group.Data.Rows {
		for i, column := range group.Data.Columns {
			if v, ok := row[column]; ok && v != nil {
				record[i] = valueToString(v)
			} else {
				record[i] = ""
			}
		}
		cw.Write(record)
	}
	cw.Flush()
}

// datasetAndRequest resolves the dataset handle and decodes the request
// options shared by the analyze and export endpoints.
func datasetAndRequest(r *http.Request) (*Dataset, *AnalyzeRequest, error) {
	uid := r.FormValue("uid")
	if uid == "" {
		return nil, nil, fmt.Errorf("missing uid")
	}
	ds, ok := registry.Get(uid)
	if !ok {
		return nil, nil, fmt.Errorf("unknown or expired dataset handle: %s", uid)
	}

	req := &AnalyzeRequest{
		GroupBy:   r.FormValue("groupby_selector_value"),
		Percent:   r.FormValue("percent_yscale") != "",
		Delimiter: r.FormValue("delimiter_symbol"),
	}
	if req.GroupBy == "notselected" {
		req.GroupBy = ""
	}
	if req.Delimiter == "" {
		req.Delimiter = config.GetConfig().DelimiterSymbol
	}
	if raw := r.FormValue("datafilters2apply"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.DataFilters); err != nil {
			return nil, nil, fmt.Errorf("bad datafilters2apply: %w", err)
		}
	}
	if raw := r.FormValue("validatedfields_exp2obs_map"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.FieldMapping); err != nil {
			return nil, nil, fmt.Errorf("bad validatedfields_exp2obs_map: %w", err)
		}
	}
	return ds, req, nil
}

// handleDashboard renders the full chart page for a dataset, same request
// shape as /analyze but html instead of json.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds, req, err := datasetAndRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dashboard, err := buildDashboard(ds, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderDashboardPage(dashboard, w); err != nil {
		log.Println("dashboard render:", err)
	}
}

// handlePlot returns a single view as a standalone png image.
func handlePlot(w http.ResponseWriter, r *http.Request) {
	ds, req, err := datasetAndRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := r.FormValue("view")
	if key == "" {
		http.Error(w, "missing view", http.StatusBadRequest)
		return
	}

	dashboard, err := buildDashboard(ds, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	view, ok := dashboard.Views[key]
	if !ok {
		http.Error(w, "unknown view: "+key, http.StatusNotFound)
		return
	}
	if view.Error != "" {
		http.Error(w, view.Error, http.StatusUnprocessableEntity)
		return
	}

	png, err := renderViewPNG(view)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func renderViewPNG(view *models.DashboardView) ([]byte, error) {
	yName := "Count"
	switch {
	case view.Temporal1 != nil:
		if view.Temporal1.Percent {
			yName = "Percent"
		}
		labels := make([]string, 0, len(view.Temporal1.Weekly))
		values := make([]float64, 0, len(view.Temporal1.Weekly))
		for _, point := range view.Temporal1.Weekly {
			labels = append(labels, point.Label)
			values = append(values, point.Count)
		}
		return plot.DrawEpiCurve(plot.NewDataWeekForGraph(labels, values, yName, viewTitles[view.Key]))
	case view.Group1 != nil:
		if view.Group1.Percent {
			yName = "Percent"
		}
		labels := make([]string, 0, len(view.Group1.Counts))
		values := make([]float64, 0, len(view.Group1.Counts))
		for _, c := range view.Group1.Counts {
			labels = append(labels, c.Value)
			values = append(values, c.Count)
		}
		return plot.DrawPlotBar(plot.NewDataCategoryForGraph(labels, values, yName, viewTitles[view.Key]))
	}
	return nil, fmt.Errorf("view has no plottable data")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
