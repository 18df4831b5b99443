package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func parseQuery(t *testing.T, query string, opt Options) Params {
	t.Helper()
	app := fiber.New()
	var p Params
	app.Get("/", func(c *fiber.Ctx) error {
		p = ParseFiber(c, "created_at", "desc", opt)
		return c.SendStatus(fiber.StatusOK)
	})
	req := httptest.NewRequest("GET", "/?"+query, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return p
}

func TestParseFiberDefaults(t *testing.T) {
	p := parseQuery(t, "", DefaultOpts)
	if p.Page != 1 || p.PerPage != 25 {
		t.Fatalf("defaults = page %d per %d, want 1/25", p.Page, p.PerPage)
	}
	if p.SortBy != "created_at" || p.SortOrder != "desc" {
		t.Fatalf("sort defaults = %s %s", p.SortBy, p.SortOrder)
	}
}

func TestParseFiberClampsPerPage(t *testing.T) {
	p := parseQuery(t, "per_page=9999", DefaultOpts)
	if p.PerPage != DefaultOpts.MaxPerPage {
		t.Fatalf("per_page = %d, want clamped to %d", p.PerPage, DefaultOpts.MaxPerPage)
	}

	p = parseQuery(t, "page=-3&per_page=0", DefaultOpts)
	if p.Page != 1 || p.PerPage != DefaultOpts.DefaultPerPage {
		t.Fatalf("page %d per %d, want 1/%d", p.Page, p.PerPage, DefaultOpts.DefaultPerPage)
	}
}

func TestParseFiberLimitAlias(t *testing.T) {
	p := parseQuery(t, "limit=10", DefaultOpts)
	if p.PerPage != 10 {
		t.Fatalf("per_page = %d, want 10 via limit alias", p.PerPage)
	}
}

func TestSafeOrderClauseWhitelistsColumns(t *testing.T) {
	allowed := map[string]string{
		"created_at": "user_created_at",
		"name":       "user_name",
	}

	p := Params{SortBy: "name", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(allowed, "created_at")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if clause != "user_name ASC" {
		t.Fatalf("clause = %q", clause)
	}

	// Injection attempts fall back to the default column.
	p = Params{SortBy: "name; DROP TABLE users", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if clause != "user_created_at DESC" {
		t.Fatalf("clause = %q", clause)
	}
}

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(101, Params{Page: 2, PerPage: 25})
	if m.TotalPages != 5 {
		t.Fatalf("total pages = %d, want 5", m.TotalPages)
	}
	if !m.HasNext || !m.HasPrev {
		t.Fatalf("has_next=%v has_prev=%v, want both true", m.HasNext, m.HasPrev)
	}

	m = BuildMeta(0, Params{Page: 1, PerPage: 25})
	if m.TotalPages != 0 || m.HasNext || m.HasPrev {
		t.Fatalf("empty meta = %+v", m)
	}
}
