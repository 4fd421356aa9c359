package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"stockroom/internal/config"
	"stockroom/internal/http/handlers"
	"stockroom/internal/repos"
)

// newTestApp wires the full route table against a fresh in-memory store.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, config.Config{DBDSN: ":memory:"})
	app.Get("/", deps.IndexHandler.Doc)
	app.Get("/health", deps.HealthHandler.Check)
	app.Get("/items", deps.ItemHandler.List)
	app.Post("/items", deps.ItemHandler.Create)
	app.Get("/items/categories", deps.ItemHandler.Categories)
	app.Get("/items/:id", deps.ItemHandler.Get)
	app.Put("/items/:id", deps.ItemHandler.Update)
	app.Delete("/items/:id", deps.ItemHandler.Delete)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: non-JSON body %q", method, path, raw)
		}
	}
	return resp.StatusCode, out
}

func item(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	it, ok := out["item"].(map[string]any)
	if !ok {
		t.Fatalf("no item in response: %v", out)
	}
	return it
}

func detailsMention(t *testing.T, out map[string]any, field string) {
	t.Helper()
	d, ok := out["details"].([]any)
	if !ok {
		t.Fatalf("no details in response: %v", out)
	}
	for _, v := range d {
		if s, ok := v.(string); ok && strings.Contains(s, field) {
			return
		}
	}
	t.Fatalf("details %v do not mention %q", d, field)
}

func TestIndexDocument(t *testing.T) {
	app, _ := newTestApp(t)
	status, out := doJSON(t, app, "GET", "/", "")
	if status != 200 {
		t.Fatalf("want 200, got %d", status)
	}
	eps, ok := out["endpoints"].(map[string]any)
	if !ok || len(eps) == 0 {
		t.Fatalf("endpoint catalogue missing: %v", out)
	}
}

func TestHealth(t *testing.T) {
	app, db := newTestApp(t)
	status, out := doJSON(t, app, "GET", "/health", "")
	if status != 200 {
		t.Fatalf("want 200, got %d", status)
	}
	if out["status"] != "healthy" || out["database"] != "connected" || out["timestamp"] == nil {
		t.Fatalf("unexpected health body: %v", out)
	}

	// Probe failure reports unhealthy with the probe error
	db.Close()
	status, out = doJSON(t, app, "GET", "/health", "")
	if status != 500 || out["status"] != "unhealthy" || out["error"] == nil {
		t.Fatalf("closed store: got %d %v", status, out)
	}
}

func TestCreateValidation(t *testing.T) {
	app, _ := newTestApp(t)

	status, out := doJSON(t, app, "POST", "/items", "")
	if status != 400 || out["error"] != "No JSON data provided" {
		t.Fatalf("empty body: got %d %v", status, out)
	}

	status, out = doJSON(t, app, "POST", "/items", `{}`)
	if status != 400 || out["error"] != "Validation failed" {
		t.Fatalf("missing name: got %d %v", status, out)
	}
	detailsMention(t, out, "name")

	status, out = doJSON(t, app, "POST", "/items", `{"name":"A","price":"abc"}`)
	if status != 400 {
		t.Fatalf("bad price: got %d %v", status, out)
	}
	detailsMention(t, out, "price")

	// Every violation is reported, not just the first
	status, out = doJSON(t, app, "POST", "/items", `{"price":"abc","quantity":"many"}`)
	if status != 400 {
		t.Fatalf("multi violation: got %d %v", status, out)
	}
	detailsMention(t, out, "name")
	detailsMention(t, out, "price")
	detailsMention(t, out, "quantity")
}

func TestCreateRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	status, out := doJSON(t, app, "POST", "/items", `{"name":"X","price":9.99,"quantity":3}`)
	if status != 201 || out["message"] != "Item created successfully" {
		t.Fatalf("create: got %d %v", status, out)
	}
	created := item(t, out)
	id := int64(created["id"].(float64))
	if id == 0 {
		t.Fatal("no id assigned")
	}

	status, out = doJSON(t, app, "GET", fmt.Sprintf("/items/%d", id), "")
	if status != 200 {
		t.Fatalf("fetch: got %d %v", status, out)
	}
	got := item(t, out)
	if got["name"] != "X" || got["price"].(float64) != 9.99 || got["quantity"].(float64) != 3 {
		t.Fatalf("round-trip mismatch: %v", got)
	}
	if got["created_at"] != got["updated_at"] {
		t.Fatalf("fresh item timestamps differ: %v", got)
	}
	if got["description"] != nil || got["category"] != nil {
		t.Fatalf("unset fields should be null: %v", got)
	}
}

func TestUpdateSemantics(t *testing.T) {
	app, _ := newTestApp(t)

	_, out := doJSON(t, app, "POST", "/items", `{"name":"Gadget","category":"Tools","price":20,"quantity":7}`)
	created := item(t, out)
	id := int64(created["id"].(float64))

	time.Sleep(20 * time.Millisecond)

	status, out := doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", id), `{"price":5.00}`)
	if status != 200 || out["message"] != "Item updated successfully" {
		t.Fatalf("update: got %d %v", status, out)
	}
	upd := item(t, out)
	if upd["price"].(float64) != 5 {
		t.Fatalf("price not updated: %v", upd)
	}
	if upd["name"] != "Gadget" || upd["category"] != "Tools" || upd["quantity"].(float64) != 7 {
		t.Fatalf("untouched fields changed: %v", upd)
	}
	if !(upd["updated_at"].(string) > created["updated_at"].(string)) {
		t.Fatalf("updated_at did not advance: %v -> %v", created["updated_at"], upd["updated_at"])
	}

	// Unrecognized fields are ignored; nothing recognized means 400
	status, out = doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", id), `{"wibble":1}`)
	if status != 400 || out["error"] != "No valid fields to update" {
		t.Fatalf("unknown fields only: got %d %v", status, out)
	}

	// Validation runs before the store is touched, so a bad payload on a
	// missing id is still a 400
	status, out = doJSON(t, app, "PUT", "/items/999999", `{"price":"abc"}`)
	if status != 400 {
		t.Fatalf("validation precedence: got %d %v", status, out)
	}

	status, out = doJSON(t, app, "PUT", "/items/999999", `{"price":5}`)
	if status != 404 || out["error"] != "Item not found" {
		t.Fatalf("missing id: got %d %v", status, out)
	}

	status, out = doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", id), "")
	if status != 400 || out["error"] != "No JSON data provided" {
		t.Fatalf("empty body: got %d %v", status, out)
	}
}

func TestDeleteIdempotentNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	_, out := doJSON(t, app, "POST", "/items", `{"name":"Doomed"}`)
	id := int64(item(t, out)["id"].(float64))

	status, out := doJSON(t, app, "DELETE", fmt.Sprintf("/items/%d", id), "")
	if status != 200 || out["message"] != "Item deleted successfully" {
		t.Fatalf("delete: got %d %v", status, out)
	}
	for i := 0; i < 2; i++ {
		status, out = doJSON(t, app, "DELETE", fmt.Sprintf("/items/%d", id), "")
		if status != 404 || out["error"] != "Item not found" {
			t.Fatalf("repeat delete: got %d %v", status, out)
		}
	}
}

func TestPaginationAcrossPages(t *testing.T) {
	app, _ := newTestApp(t)

	// 5 seeds + 20 created = 25
	for i := 0; i < 20; i++ {
		status, _ := doJSON(t, app, "POST", "/items", fmt.Sprintf(`{"name":"Bulk %02d"}`, i))
		if status != 201 {
			t.Fatalf("bulk create %d failed: %d", i, status)
		}
	}

	status, out := doJSON(t, app, "GET", "/items?page=1&per_page=10", "")
	if status != 200 {
		t.Fatalf("list: got %d", status)
	}
	pg := out["pagination"].(map[string]any)
	if pg["total_items"].(float64) != 25 || pg["total_pages"].(float64) != 3 {
		t.Fatalf("totals wrong: %v", pg)
	}
	if len(out["items"].([]any)) != 10 || pg["has_next"] != true || pg["has_prev"] != false {
		t.Fatalf("page 1 wrong: %v", pg)
	}

	_, out = doJSON(t, app, "GET", "/items?page=2&per_page=10", "")
	pg = out["pagination"].(map[string]any)
	if len(out["items"].([]any)) != 10 || pg["has_next"] != true || pg["has_prev"] != true {
		t.Fatalf("page 2 wrong: %v", pg)
	}

	_, out = doJSON(t, app, "GET", "/items?page=3&per_page=10", "")
	pg = out["pagination"].(map[string]any)
	if len(out["items"].([]any)) != 5 || pg["has_next"] != false || pg["has_prev"] != true {
		t.Fatalf("page 3 wrong: %v", pg)
	}

	// Clamping: oversized per_page is capped, nonsense values fall back
	_, out = doJSON(t, app, "GET", "/items?per_page=500", "")
	if out["pagination"].(map[string]any)["per_page"].(float64) != 100 {
		t.Fatalf("per_page not capped: %v", out["pagination"])
	}
	_, out = doJSON(t, app, "GET", "/items?per_page=-2&page=-1", "")
	pg = out["pagination"].(map[string]any)
	if pg["per_page"].(float64) != 10 || pg["page"].(float64) != 1 {
		t.Fatalf("negative params not clamped: %v", pg)
	}
}

func TestFilteringAndEcho(t *testing.T) {
	app, _ := newTestApp(t)

	status, out := doJSON(t, app, "GET", "/items?category=Electronics", "")
	if status != 200 {
		t.Fatalf("list: got %d", status)
	}
	items := out["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("want 2 Electronics seeds, got %d", len(items))
	}
	for _, v := range items {
		if v.(map[string]any)["category"] != "Electronics" {
			t.Fatalf("category filter leaked: %v", v)
		}
	}

	_, out = doJSON(t, app, "GET", "/items?search=mouse", "")
	items = out["items"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["name"] != "Wireless Mouse" {
		t.Fatalf("search mouse: %v", items)
	}

	f := out["filters"].(map[string]any)
	if f["search"] != "mouse" || f["category"] != nil {
		t.Fatalf("filter echo wrong: %v", f)
	}
	if f["sort_by"] != "id" || f["sort_order"] != "asc" {
		t.Fatalf("sort echo defaults wrong: %v", f)
	}
}

func TestSortDescending(t *testing.T) {
	app, _ := newTestApp(t)

	_, out := doJSON(t, app, "GET", "/items?sort_by=price&sort_order=desc", "")
	items := out["items"].([]any)
	if len(items) != 5 {
		t.Fatalf("want 5 seeds, got %d", len(items))
	}
	prev := items[0].(map[string]any)["price"].(float64)
	for _, v := range items[1:] {
		p := v.(map[string]any)["price"].(float64)
		if p > prev {
			t.Fatalf("prices not non-increasing: %v then %v", prev, p)
		}
		prev = p
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, out := doJSON(t, app, "GET", "/items/categories", "")
	if status != 200 {
		t.Fatalf("categories: got %d", status)
	}
	cats := out["categories"].([]any)
	want := []string{"Books", "Electronics", "Kitchen", "Office"}
	if len(cats) != len(want) {
		t.Fatalf("want %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("want %v, got %v", want, cats)
		}
	}
}

func TestRoutingErrors(t *testing.T) {
	app, _ := newTestApp(t)

	status, out := doJSON(t, app, "GET", "/nope", "")
	if status != 404 || out["error"] != "Endpoint not found" {
		t.Fatalf("unknown path: got %d %v", status, out)
	}

	status, out = doJSON(t, app, "PATCH", "/items", "")
	if status != 405 || out["error"] != "Method not allowed" {
		t.Fatalf("wrong method: got %d %v", status, out)
	}

	status, out = doJSON(t, app, "DELETE", "/health", "")
	if status != 405 || out["error"] != "Method not allowed" {
		t.Fatalf("wrong method on /health: got %d %v", status, out)
	}

	// Non-integer id never matches the typed route contract
	status, out = doJSON(t, app, "GET", "/items/abc", "")
	if status != 404 || out["error"] != "Endpoint not found" {
		t.Fatalf("non-integer id: got %d %v", status, out)
	}
}
