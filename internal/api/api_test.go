package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
	"github.com/mfc9812ops/Amaze-Picking/internal/db"
	"github.com/mfc9812ops/Amaze-Picking/internal/folder"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
	"github.com/mfc9812ops/Amaze-Picking/internal/session"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

const testJWTSecret = "test-secret"

var testClock = time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	st := store.New(db.NewTestDB(t))
	ctx := context.Background()

	// Seed the employee and item sheets the way first-run provisioning does.
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	st.EnsureSheet(ctx, catalog.UserSheet, []string{"Employee ID", "Password", "Name"})
	st.AppendRow(ctx, catalog.UserSheet, []string{"EMP001", string(hash), "Somchai"})

	st.EnsureSheet(ctx, catalog.ItemSheet,
		[]string{"SKU", "Barcode", "Category", "Brand", "Size", "Variant", "Zone", "Location"})
	st.AppendRow(ctx, catalog.ItemSheet,
		[]string{"S1", "8850001", "Drink", "Cola", "L", "Lemon", "A1", "R3-S2"})

	cache := catalog.NewCache(st)
	router := NewRouter(Config{
		Store:     st,
		Sessions:  session.NewManager(),
		Catalog:   &catalog.Catalog{Rows: cache, Sheet: catalog.ItemSheet},
		Directory: &catalog.Directory{Rows: cache, Sheet: catalog.UserSheet},
		Cache:     cache,
		Resolver:  &folder.Resolver{Store: st, RootID: store.RootFolderID},
		Ledger:    picklog.NewLedger(st, "/api/files/%s"),
		JWTSecret: testJWTSecret,
		Now:       func() time.Time { return testClock },
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Get token.
	body, _ := json.Marshal(map[string]string{"employee_id": "EMP001", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}
	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func testPhotoJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{200, 100, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test photo: %v", err)
	}
	return buf.Bytes()
}

// photoRequest builds a multipart request with a "photo" file part plus any
// extra string fields.
func photoRequest(t *testing.T, url, token string, photo []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", "capture.jpg")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write(photo)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req, _ := http.NewRequest("POST", url, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, body)
	}
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
}

func TestBadgeLookup(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"employee_id": "EMP001"})
	resp, err := http.Post(server.URL+"/api/auth/lookup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("lookup request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var lookup map[string]string
	json.NewDecoder(resp.Body).Decode(&lookup)
	if lookup["name"] != "Somchai" {
		t.Errorf("expected name 'Somchai', got %q", lookup["name"])
	}

	body, _ = json.Marshal(map[string]string{"employee_id": "EMP999"})
	resp2, _ := http.Post(server.URL+"/api/auth/lookup", "application/json", bytes.NewReader(body))
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown badge, got %d", resp2.StatusCode)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"employee_id": "EMP001", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	server, _ := setupTestServer(t)

	req, _ := http.NewRequest("GET", server.URL+"/api/session", nil)
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/session", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", resp.StatusCode)
	}
}

func TestPickingFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Set the order; input is normalized to uppercase.
	var view map[string]any
	req, _ := authRequest("POST", server.URL+"/api/session/order", token, map[string]string{"order_id": "b01"})
	doJSON(t, req, http.StatusOK, &view)
	if view["order_id"] != "B01" {
		t.Fatalf("expected order 'B01', got %v", view["order_id"])
	}

	// Scan an item; the target location comes from the catalog.
	req, _ = authRequest("POST", server.URL+"/api/session/item", token, map[string]string{"barcode": "8850001"})
	doJSON(t, req, http.StatusOK, &view)
	if view["target_location"] != "A1-R3-S2" {
		t.Fatalf("expected target 'A1-R3-S2', got %v", view["target_location"])
	}

	// A wrong location is rejected but the item survives.
	req, _ = authRequest("POST", server.URL+"/api/session/location", token, map[string]string{"location": "Z9"})
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for wrong location, got %d", resp.StatusCode)
	}

	// A partial location code passes.
	req, _ = authRequest("POST", server.URL+"/api/session/location", token, map[string]string{"location": "A1"})
	doJSON(t, req, http.StatusOK, &view)

	req, _ = authRequest("POST", server.URL+"/api/session/cart", token, map[string]int{"quantity": 2})
	doJSON(t, req, http.StatusOK, &view)
	if cart, ok := view["cart"].([]any); !ok || len(cart) != 1 {
		t.Fatalf("expected 1 cart line, got %v", view["cart"])
	}

	req, _ = authRequest("POST", server.URL+"/api/session/advance", token, nil)
	doJSON(t, req, http.StatusOK, &view)
	if view["phase"] != "pack" {
		t.Fatalf("expected pack phase, got %v", view["phase"])
	}

	// Committing without photos is rejected.
	req, _ = authRequest("POST", server.URL+"/api/session/commit", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for commit without photos, got %d", resp.StatusCode)
	}

	photo := testPhotoJPEG(t)
	doJSON(t, photoRequest(t, server.URL+"/api/session/photos", token, photo, nil), http.StatusOK, &view)
	doJSON(t, photoRequest(t, server.URL+"/api/session/photos", token, photo, nil), http.StatusOK, &view)
	if view["photo_count"].(float64) != 2 {
		t.Fatalf("expected 2 photos, got %v", view["photo_count"])
	}

	var commit struct {
		Uploaded    int            `json:"uploaded"`
		Logged      int            `json:"logged"`
		PhotoFileID string         `json:"photo_file_id"`
		FolderName  string         `json:"folder_name"`
		Session     map[string]any `json:"session"`
	}
	req, _ = authRequest("POST", server.URL+"/api/session/commit", token, nil)
	doJSON(t, req, http.StatusOK, &commit)

	if commit.Uploaded != 2 || commit.Logged != 1 {
		t.Errorf("expected 2 uploads and 1 row, got %+v", commit)
	}
	if commit.FolderName != "B01_14-05" {
		t.Errorf("expected folder 'B01_14-05', got %q", commit.FolderName)
	}
	if commit.Session["order_id"] != "" || commit.Session["phase"] != "scan" {
		t.Errorf("expected reset session, got %v", commit.Session)
	}

	// The canonical photo is retrievable through the files endpoint.
	req, _ = authRequest("GET", server.URL+"/api/files/"+commit.PhotoFileID, token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("files request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for stored photo, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
}

func TestUnknownBarcode(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/session/order", token, map[string]string{"order_id": "B01"})
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("POST", server.URL+"/api/session/item", token, map[string]string{"barcode": "9999999"})
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown barcode, got %d", resp.StatusCode)
	}
}

func TestRiderFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// The rider flow never creates folders, so it fails before any commit.
	req, _ := authRequest("POST", server.URL+"/api/rider/folder", token, map[string]string{"order_id": "B01"})
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before any commit, got %d", resp.StatusCode)
	}

	// Run a pack commit to create today's order folder.
	photo := testPhotoJPEG(t)
	req, _ = authRequest("POST", server.URL+"/api/session/order", token, map[string]string{"order_id": "B01"})
	doJSON(t, req, http.StatusOK, nil)
	req, _ = authRequest("POST", server.URL+"/api/session/item", token, map[string]string{"barcode": "8850001"})
	doJSON(t, req, http.StatusOK, nil)
	req, _ = authRequest("POST", server.URL+"/api/session/location", token, map[string]string{"location": "A1"})
	doJSON(t, req, http.StatusOK, nil)
	req, _ = authRequest("POST", server.URL+"/api/session/cart", token, nil)
	doJSON(t, req, http.StatusOK, nil)
	req, _ = authRequest("POST", server.URL+"/api/session/advance", token, nil)
	doJSON(t, req, http.StatusOK, nil)
	doJSON(t, photoRequest(t, server.URL+"/api/session/photos", token, photo, nil), http.StatusOK, nil)
	req, _ = authRequest("POST", server.URL+"/api/session/commit", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// Now the rider can find the folder, case-insensitively.
	var found map[string]string
	req, _ = authRequest("POST", server.URL+"/api/rider/folder", token, map[string]string{"order_id": "b01"})
	doJSON(t, req, http.StatusOK, &found)
	if found["folder_name"] != "B01_14-05" {
		t.Errorf("expected folder 'B01_14-05', got %q", found["folder_name"])
	}

	var rider map[string]string
	riderReq := photoRequest(t, server.URL+"/api/rider/commit", token, photo, map[string]string{"order_id": "B01"})
	doJSON(t, riderReq, http.StatusOK, &rider)
	if rider["photo_file_id"] == "" {
		t.Error("expected rider photo file id")
	}
	if rider["folder_id"] != found["folder_id"] {
		t.Errorf("rider photo went to folder %q, want %q", rider["folder_id"], found["folder_id"])
	}
}

func TestScanEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	// A frame with no barcode decodes to an empty payload list, not an error.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("image", "frame.jpg")
	part.Write(testPhotoJPEG(t))
	mw.Close()

	req, _ := http.NewRequest("POST", server.URL+"/api/scan", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var scan struct {
		Payloads []string `json:"payloads"`
	}
	doJSON(t, req, http.StatusOK, &scan)
	if len(scan.Payloads) != 0 {
		t.Errorf("expected no payloads from a blank frame, got %v", scan.Payloads)
	}
}

func TestCatalogRefresh(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/catalog/refresh", token, nil)
	doJSON(t, req, http.StatusOK, nil)
}
