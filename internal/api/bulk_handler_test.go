package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homelabops/inventory/internal/model"
	"github.com/homelabops/inventory/internal/store"
)

func upsertCountingStore(existing map[string]bool) *store.MockStore {
	return &store.MockStore{
		UpsertDeviceByNameFunc: func(ctx context.Context, req model.CreateDeviceRequest) (model.Device, bool, error) {
			created := !existing[req.Name]
			existing[req.Name] = true
			return model.Device{ID: len(existing), Name: req.Name, DeviceType: req.DeviceType}, created, nil
		},
	}
}

func TestBulkImport_JSON(t *testing.T) {
	st := upsertCountingStore(map[string]bool{"web01": true})
	router := newTestRouter(st, t.TempDir())

	rows := []model.CreateDeviceRequest{
		{Name: "web01", DeviceType: model.DeviceLinuxServerVirtual},
		{Name: "nas01", DeviceType: model.DeviceLinuxServerPhysical},
		{Name: "bad01", DeviceType: "mainframe"},
		{Name: "", DeviceType: model.DeviceIoT},
	}
	w := doJSON(t, router, "POST", "/api/v1/bulk/import", rows)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	result := decodeBody[struct {
		Imported int `json:"imported"`
		Updated  int `json:"updated"`
		Failed   int `json:"failed"`
		Errors   []struct {
			Row     int    `json:"row"`
			Message string `json:"message"`
		} `json:"errors"`
	}](t, w)
	if result.Imported != 1 || result.Updated != 1 || result.Failed != 2 {
		t.Errorf("imported/updated/failed = %d/%d/%d, want 1/1/2", result.Imported, result.Updated, result.Failed)
	}
	if len(result.Errors) != 2 || result.Errors[0].Row != 3 || result.Errors[1].Row != 4 {
		t.Errorf("errors = %+v, want rows 3 and 4", result.Errors)
	}
}

func TestBulkImport_CSV(t *testing.T) {
	st := upsertCountingStore(map[string]bool{})
	router := newTestRouter(st, t.TempDir())

	body := strings.Join([]string{
		"name,device_type,ip_address,monitoring_enabled",
		"sw01,network_switch,10.0.0.2,true",
		"ap01,wireless_ap,10.0.0.3,false",
	}, "\n")
	req := httptest.NewRequest("POST", "/api/v1/bulk/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	result := decodeBody[struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
	}](t, w)
	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("imported/failed = %d/%d, want 2/0", result.Imported, result.Failed)
	}
}

func TestBulkImport_CSVWithBOM(t *testing.T) {
	st := upsertCountingStore(map[string]bool{})
	router := newTestRouter(st, t.TempDir())

	// Spreadsheet exports commonly prefix the header with a UTF-8 BOM.
	body := "\uFEFFname,device_type\nnas01,linux_server_physical\n"
	req := httptest.NewRequest("POST", "/api/v1/bulk/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	result := decodeBody[struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
	}](t, w)
	if result.Imported != 1 || result.Failed != 0 {
		t.Errorf("imported/failed = %d/%d, want 1/0", result.Imported, result.Failed)
	}
}

func TestBulkImport_Empty(t *testing.T) {
	router := newTestRouter(&store.MockStore{}, t.TempDir())
	w := doJSON(t, router, "POST", "/api/v1/bulk/import", []model.CreateDeviceRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBulkImport_BadCSVHeader(t *testing.T) {
	router := newTestRouter(&store.MockStore{}, t.TempDir())
	req := httptest.NewRequest("POST", "/api/v1/bulk/import", strings.NewReader("name,ip_address\nweb01,10.0.0.1\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestBulkExport_CSV(t *testing.T) {
	st := &store.MockStore{
		ListAllDevicesWithMonitorsFunc: func(ctx context.Context) ([]model.Device, error) {
			return []model.Device{
				{ID: 1, Name: "web01", DeviceType: model.DeviceLinuxServerVirtual, IPAddress: "10.0.0.11", MonitoringEnabled: true},
				{ID: 2, Name: "sw01", DeviceType: model.DeviceNetworkSwitch, IPAddress: "10.0.0.2", PoEPowered: true},
			}, nil
		},
	}
	router := newTestRouter(st, t.TempDir())

	w := doJSON(t, router, "GET", "/api/v1/bulk/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}

	records, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(records))
	}
	if records[0][0] != "name" || records[1][0] != "web01" || records[2][1] != model.DeviceNetworkSwitch {
		t.Errorf("unexpected rows: %v", records)
	}
}

func TestBulkExport_JSON(t *testing.T) {
	st := &store.MockStore{
		ListAllDevicesWithMonitorsFunc: func(ctx context.Context) ([]model.Device, error) {
			return []model.Device{{ID: 1, Name: "web01", DeviceType: model.DeviceLinuxServerVirtual}}, nil
		},
	}
	router := newTestRouter(st, t.TempDir())

	w := doJSON(t, router, "GET", "/api/v1/bulk/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeBody[struct {
		Data  []model.Device `json:"data"`
		Total int            `json:"total"`
	}](t, w)
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("total/data = %d/%d, want 1/1", resp.Total, len(resp.Data))
	}
}

func TestBulkDelete(t *testing.T) {
	st := &store.MockStore{
		DeleteDeviceFunc: func(ctx context.Context, id int) error {
			if id == 4 {
				return fmt.Errorf("device not found")
			}
			return nil
		},
	}
	router := newTestRouter(st, t.TempDir())

	w := doJSON(t, router, "POST", "/api/v1/bulk/delete", model.BulkDeleteRequest{IDs: []int{1, 2, 4}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[struct {
		Deleted int `json:"deleted"`
		Results []struct {
			ID      int    `json:"id"`
			Deleted bool   `json:"deleted"`
			Message string `json:"message"`
		} `json:"results"`
	}](t, w)
	if resp.Deleted != 2 || len(resp.Results) != 3 {
		t.Errorf("deleted/results = %d/%d, want 2/3", resp.Deleted, len(resp.Results))
	}
	if resp.Results[2].Deleted || resp.Results[2].Message == "" {
		t.Errorf("result for id 4 = %+v, want failure with message", resp.Results[2])
	}
}

func TestBulkDelete_EmptyIDs(t *testing.T) {
	router := newTestRouter(&store.MockStore{}, t.TempDir())
	w := doJSON(t, router, "POST", "/api/v1/bulk/delete", model.BulkDeleteRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
