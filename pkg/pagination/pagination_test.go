package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext("/donors"))
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(newContext("/donors?limit=35&offset=70"))
	if p.Limit != 35 {
		t.Errorf("expected limit 35, got %d", p.Limit)
	}
	if p.Offset != 70 {
		t.Errorf("expected offset 70, got %d", p.Offset)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := FromContext(newContext("/donors?limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeOffset(t *testing.T) {
	p := FromContext(newContext("/donors?offset=-5"))
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestSQL(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if got := p.SQL(); got != "LIMIT 20 OFFSET 40" {
		t.Errorf("unexpected SQL clause: %s", got)
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 10, 2, 0)
	if resp.Total != 10 {
		t.Errorf("expected total 10, got %d", resp.Total)
	}
	if !resp.HasMore {
		t.Error("expected HasMore to be true")
	}

	last := NewResponse([]string{"c"}, 10, 2, 9)
	if last.HasMore {
		t.Error("expected HasMore to be false on last page")
	}
}

func TestParams_HasNext(t *testing.T) {
	p := Params{Limit: 20, Offset: 0}
	if !p.HasNext(50) {
		t.Error("expected HasNext true with 50 results")
	}
	if p.HasNext(20) {
		t.Error("expected HasNext false with exactly one page")
	}
}

func TestParams_HasPrevious(t *testing.T) {
	if (Params{Limit: 20, Offset: 0}).HasPrevious() {
		t.Error("expected HasPrevious false at offset 0")
	}
	if !(Params{Limit: 20, Offset: 20}).HasPrevious() {
		t.Error("expected HasPrevious true at offset 20")
	}
}

func TestParams_Offsets(t *testing.T) {
	p := Params{Limit: 20, Offset: 30}
	if p.NextOffset() != 50 {
		t.Errorf("expected next offset 50, got %d", p.NextOffset())
	}
	if p.PreviousOffset() != 10 {
		t.Errorf("expected previous offset 10, got %d", p.PreviousOffset())
	}

	first := Params{Limit: 20, Offset: 5}
	if first.PreviousOffset() != 0 {
		t.Errorf("expected previous offset floored at 0, got %d", first.PreviousOffset())
	}
}
