package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/model"
)

// csvHeader is the column order for CSV import and export.
var csvHeader = []string{
	"name", "device_type", "ip_address", "function",
	"serial_number", "networks", "interface_type",
	"poe_powered", "poe_standards", "monitoring_enabled",
}

// BulkHandler serves the bulk import/export/delete endpoints.
type BulkHandler struct {
	deps *common.Dependencies
}

func NewBulkHandler(deps *common.Dependencies) *BulkHandler {
	return &BulkHandler{deps: deps}
}

type rowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResult struct {
	Imported int        `json:"imported"`
	Updated  int        `json:"updated"`
	Failed   int        `json:"failed"`
	Errors   []rowError `json:"errors,omitempty"`
}

// Import handles POST /bulk/import. The Content-Type header selects
// the format: application/json expects an array of device payloads,
// text/csv a header row plus one device per line. Rows upsert by name
// independently, so one bad row never aborts the batch.
func (h *BulkHandler) Import(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var rows []model.CreateDeviceRequest
	switch {
	case strings.HasPrefix(contentType, "text/csv"):
		parsed, err := parseCSVRows(r.Body)
		if err != nil {
			common.SendError(w, r, http.StatusBadRequest, "INVALID_CSV", err.Error(), nil)
			return
		}
		rows = parsed
	default:
		decoded, ok := common.DecodeJSON[[]model.CreateDeviceRequest](w, r)
		if !ok {
			return
		}
		rows = decoded
	}

	if len(rows) == 0 {
		common.SendError(w, r, http.StatusBadRequest, "EMPTY_IMPORT", "no rows to import", nil)
		return
	}

	result := importResult{}
	for i, row := range rows {
		if err := model.ValidateStruct(&row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, rowError{Row: i + 1, Message: err.Error()})
			continue
		}
		_, created, err := h.deps.Store.UpsertDeviceByName(r.Context(), row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, rowError{Row: i + 1, Message: err.Error()})
			continue
		}
		if created {
			result.Imported++
		} else {
			result.Updated++
		}
	}

	h.deps.Logger.InfoContext(r.Context(), "Bulk import finished",
		"rows", len(rows),
		"imported", result.Imported,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	common.SendJSON(w, http.StatusOK, result)
}

// Export handles GET /bulk/export?format=json|csv: the full device
// dump, with monitors in JSON form, flat rows in CSV form.
func (h *BulkHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		common.SendError(w, r, http.StatusBadRequest, "INVALID_FORMAT", "format must be json or csv", nil)
		return
	}

	devices, err := h.deps.Store.ListAllDevicesWithMonitors(r.Context())
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}

	if format == "json" {
		common.SendListResponse(w, devices, len(devices))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="devices.csv"`)
	cw := csv.NewWriter(w)
	cw.Write(csvHeader)
	for _, d := range devices {
		cw.Write([]string{
			d.Name, d.DeviceType, d.IPAddress, d.Function,
			d.SerialNumber, d.Networks, d.InterfaceType,
			strconv.FormatBool(d.PoEPowered), d.PoEStandards,
			strconv.FormatBool(d.MonitoringEnabled),
		})
	}
	cw.Flush()
}

type deleteResult struct {
	ID      int    `json:"id"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message,omitempty"`
}

// Delete handles POST /bulk/delete with a per-id result list.
func (h *BulkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := common.DecodeJSON[model.BulkDeleteRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	results := make([]deleteResult, 0, len(req.IDs))
	deleted := 0
	for _, id := range req.IDs {
		if err := h.deps.Store.DeleteDevice(r.Context(), id); err != nil {
			results = append(results, deleteResult{ID: id, Message: err.Error()})
			continue
		}
		results = append(results, deleteResult{ID: id, Deleted: true})
		deleted++
	}

	common.SendJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
		"results": results,
	})
}

// parseCSVRows reads the CSV import format: a header naming a subset of
// csvHeader columns, then one device per record.
func parseCSVRows(body io.Reader) ([]model.CreateDeviceRequest, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, errors.New("header misses the name column")
	}
	if _, ok := index["device_type"]; !ok {
		return nil, errors.New("header misses the device_type column")
	}

	cell := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []model.CreateDeviceRequest
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+2, err)
		}

		row := model.CreateDeviceRequest{
			Name:          cell(record, "name"),
			DeviceType:    cell(record, "device_type"),
			IPAddress:     cell(record, "ip_address"),
			Function:      cell(record, "function"),
			SerialNumber:  cell(record, "serial_number"),
			Networks:      cell(record, "networks"),
			InterfaceType: cell(record, "interface_type"),
			PoEStandards:  cell(record, "poe_standards"),
		}
		if v := cell(record, "poe_powered"); v != "" {
			row.PoEPowered, _ = strconv.ParseBool(v)
		}
		if v := cell(record, "monitoring_enabled"); v != "" {
			b, err := strconv.ParseBool(v)
			if err == nil {
				row.MonitoringEnabled = &b
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
