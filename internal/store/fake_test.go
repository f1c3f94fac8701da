package store

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// fakeSheets is an in-memory stand-in for the Sheets v4 REST backend,
// implementing the five endpoints the Store calls: spreadsheet get,
// spreadsheet batchUpdate (addSheet, deleteDimension), values get, values
// append and values batchUpdate.
type fakeSheets struct {
	mu         sync.Mutex
	worksheets []*fakeWorksheet
	nextID     int64
	failAll    bool
}

type fakeWorksheet struct {
	id    int64
	title string
	rows  [][]string
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{nextID: 100}
}

func (f *fakeSheets) handler() http.Handler {
	return http.HandlerFunc(f.serve)
}

// worksheet returns the named worksheet, or nil.
func (f *fakeSheets) worksheet(title string) *fakeWorksheet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByTitle(title)
}

// fail makes every subsequent request return a 500 with a Sheets-style
// error body.
func (f *fakeSheets) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = true
}

func (f *fakeSheets) findByTitle(title string) *fakeWorksheet {
	for _, ws := range f.worksheets {
		if ws.title == title {
			return ws
		}
	}
	return nil
}

func (f *fakeSheets) findByID(id int64) *fakeWorksheet {
	for _, ws := range f.worksheets {
		if ws.id == id {
			return ws
		}
	}
	return nil
}

func (f *fakeSheets) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":500,"message":"backend unavailable","status":"UNAVAILABLE"}}`)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	switch {
	case r.Method == http.MethodGet && !strings.Contains(path, "/"):
		f.serveSpreadsheet(w)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate") && !strings.Contains(path, "/values"):
		f.serveBatchUpdate(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/values:batchUpdate"):
		f.serveValuesBatchUpdate(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		ref := strings.TrimSuffix(afterValues(path), ":append")
		f.serveAppend(w, r, ref)
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		f.serveValuesGet(w, afterValues(path))
	default:
		http.NotFound(w, r)
	}
}

func afterValues(path string) string {
	i := strings.Index(path, "/values/")
	return path[i+len("/values/"):]
}

func (f *fakeSheets) serveSpreadsheet(w http.ResponseWriter) {
	type props struct {
		SheetID int64  `json:"sheetId"`
		Title   string `json:"title"`
	}
	type sheetEntry struct {
		Properties props `json:"properties"`
	}
	entries := make([]sheetEntry, 0, len(f.worksheets))
	for _, ws := range f.worksheets {
		entries = append(entries, sheetEntry{Properties: props{SheetID: ws.id, Title: ws.title}})
	}
	writeJSON(w, map[string]interface{}{
		"spreadsheetId": "test-spreadsheet",
		"sheets":        entries,
	})
}

func (f *fakeSheets) serveBatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requests []struct {
			AddSheet *struct {
				Properties struct {
					Title string `json:"title"`
				} `json:"properties"`
			} `json:"addSheet"`
			DeleteDimension *struct {
				Range struct {
					SheetID    int64  `json:"sheetId"`
					Dimension  string `json:"dimension"`
					StartIndex int64  `json:"startIndex"`
					EndIndex   int64  `json:"endIndex"`
				} `json:"range"`
			} `json:"deleteDimension"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var replies []interface{}
	for _, item := range req.Requests {
		switch {
		case item.AddSheet != nil:
			ws := &fakeWorksheet{id: f.nextID, title: item.AddSheet.Properties.Title}
			f.nextID++
			f.worksheets = append(f.worksheets, ws)
			replies = append(replies, map[string]interface{}{
				"addSheet": map[string]interface{}{
					"properties": map[string]interface{}{
						"sheetId": ws.id,
						"title":   ws.title,
					},
				},
			})
		case item.DeleteDimension != nil:
			rng := item.DeleteDimension.Range
			ws := f.findByID(rng.SheetID)
			if ws == nil {
				http.Error(w, "no such sheet", http.StatusBadRequest)
				return
			}
			start, end := rng.StartIndex, rng.EndIndex
			if start < 0 || end > int64(len(ws.rows)) || start >= end {
				http.Error(w, "bad dimension range", http.StatusBadRequest)
				return
			}
			ws.rows = append(ws.rows[:start], ws.rows[end:]...)
			replies = append(replies, map[string]interface{}{})
		}
	}
	writeJSON(w, map[string]interface{}{"replies": replies})
}

func (f *fakeSheets) serveValuesBatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data []struct {
			Range  string          `json:"range"`
			Values [][]interface{} `json:"values"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, datum := range req.Data {
		title, ref, ok := strings.Cut(datum.Range, "!")
		if !ok {
			http.Error(w, "bad range", http.StatusBadRequest)
			return
		}
		ws := f.findByTitle(title)
		if ws == nil {
			http.Error(w, "no such sheet", http.StatusBadRequest)
			return
		}
		col, row, err := parseCellRef(ref)
		if err != nil || row > len(ws.rows) {
			http.Error(w, "bad cell ref", http.StatusBadRequest)
			return
		}
		if len(datum.Values) != 1 || len(datum.Values[0]) != 1 {
			http.Error(w, "expected single cell", http.StatusBadRequest)
			return
		}
		cells := ws.rows[row-1]
		for len(cells) <= col {
			cells = append(cells, "")
		}
		cells[col] = fmt.Sprint(datum.Values[0][0])
		ws.rows[row-1] = cells
	}
	writeJSON(w, map[string]interface{}{"totalUpdatedCells": len(req.Data)})
}

func (f *fakeSheets) serveAppend(w http.ResponseWriter, r *http.Request, rangeStr string) {
	title, _, ok := strings.Cut(rangeStr, "!")
	if !ok {
		http.Error(w, "bad range", http.StatusBadRequest)
		return
	}
	ws := f.findByTitle(title)
	if ws == nil {
		http.Error(w, "no such sheet", http.StatusBadRequest)
		return
	}

	var vr struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, row := range vr.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		ws.rows = append(ws.rows, cells)
	}
	writeJSON(w, map[string]interface{}{"spreadsheetId": "test-spreadsheet"})
}

func (f *fakeSheets) serveValuesGet(w http.ResponseWriter, rangeStr string) {
	title, ref, ok := strings.Cut(rangeStr, "!")
	if !ok {
		http.Error(w, "bad range", http.StatusBadRequest)
		return
	}
	ws := f.findByTitle(title)
	if ws == nil {
		http.Error(w, "no such sheet", http.StatusBadRequest)
		return
	}

	var values [][]interface{}
	switch ref {
	case "A:A":
		for _, row := range ws.rows {
			if len(row) > 0 {
				values = append(values, []interface{}{row[0]})
			}
		}
	case "A2:E":
		for _, row := range ws.rows[min(1, len(ws.rows)):] {
			cells := make([]interface{}, 0, len(row))
			for _, cell := range row {
				cells = append(cells, cell)
			}
			values = append(values, cells)
		}
	default:
		http.Error(w, "unsupported range "+ref, http.StatusBadRequest)
		return
	}

	resp := map[string]interface{}{
		"range":          rangeStr,
		"majorDimension": "ROWS",
	}
	if len(values) > 0 {
		resp["values"] = values
	}
	writeJSON(w, resp)
}

// parseCellRef splits a single-cell reference like "B12" into a zero-based
// column and one-based row.
func parseCellRef(ref string) (col, row int, err error) {
	if len(ref) < 2 || ref[0] < 'A' || ref[0] > 'Z' {
		return 0, 0, fmt.Errorf("bad cell ref %q", ref)
	}
	row, err = strconv.Atoi(ref[1:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("bad cell ref %q", ref)
	}
	return int(ref[0] - 'A'), row, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
