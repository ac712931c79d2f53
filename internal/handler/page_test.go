package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

func (e *testEnv) form(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func TestEntryPage(t *testing.T) {
	env := setupHandlers(t)

	rec := env.do(t, "GET", "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`action="/calendars"`, `action="/enter"`, `placeholder="New calendar"`} {
		if !strings.Contains(body, want) {
			t.Errorf("entry page missing %q", want)
		}
	}
}

func TestCreateCalendarPage(t *testing.T) {
	env := setupHandlers(t)

	rec := env.form(t, "/calendars", url.Values{"name": {""}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	token, ok := strings.CutPrefix(loc, "/#")
	if !ok || len(token) <= 10 {
		t.Fatalf("location = %q, want /#<token>", loc)
	}

	cal, err := env.calendarStore.GetByToken(token)
	if err != nil || cal == nil {
		t.Fatalf("created calendar not found: %v", err)
	}
	if cal.Name != "New calendar" {
		t.Errorf("name = %q", cal.Name)
	}
}

func TestEnterLink(t *testing.T) {
	env := setupHandlers(t)

	cases := []struct {
		link string
		want string
	}{
		{"https://eonje.example/#" + testToken, "/" + testToken},
		{"https://eonje.example/" + testToken + "?ref=chat", "/" + testToken},
		{"  " + testToken + "  ", "/" + testToken},
	}
	for _, tc := range cases {
		rec := env.form(t, "/enter", url.Values{"link": {tc.link}})
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%q: status = %d, want 303", tc.link, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != tc.want {
			t.Errorf("%q: location = %q, want %q", tc.link, loc, tc.want)
		}
	}
}

func TestEnterLinkInvalid(t *testing.T) {
	env := setupHandlers(t)

	rec := env.form(t, "/enter", url.Values{"link": {"short"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not valid") {
		t.Error("expected invalid link message")
	}

	rec = env.form(t, "/enter", url.Values{"link": {"  "}})
	if !strings.Contains(rec.Body.String(), "Enter a calendar link or ID.") {
		t.Error("expected empty link message")
	}
}

func TestCalendarPage(t *testing.T) {
	env := setupHandlers(t)
	env.addMember(t, "Mina")

	rec := env.do(t, "GET", "/"+testToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Team", "https://eonje.example/#" + testToken, `id="grid"`, "Mina", "10/19 (Mon)"} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar page missing %q", want)
		}
	}
}

func TestCalendarPageUnknownToken(t *testing.T) {
	env := setupHandlers(t)

	rec := env.do(t, "GET", "/doesnotexist99", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("status = %d location %q, want 303 to /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGridPartialEmptyStates(t *testing.T) {
	env := setupHandlers(t)

	rec := env.do(t, "GET", "/partials/"+testToken+"/grid", nil)
	if !strings.Contains(rec.Body.String(), "No members yet.") {
		t.Errorf("body = %q, want no-members message", rec.Body.String())
	}

	env.addMember(t, "Mina")
	rec = env.do(t, "GET", "/partials/"+testToken+"/grid?start=2026-10-20&end=2026-10-19", nil)
	// A reversed query is not a valid period, so the default applies.
	if strings.Contains(rec.Body.String(), "No dates in this period.") {
		t.Error("reversed query should fall back to the default period")
	}
}

func pickerPath(member *model.Member, date string, extra url.Values) string {
	q := url.Values{
		"member": {itoa(member.ID)},
		"date":   {date},
		"ax":     {"100"}, "ay": {"200"}, "aw": {"40"}, "ah": {"32"},
		"vw": {"1024"}, "vh": {"768"},
	}
	for k, v := range extra {
		q[k] = v
	}
	return "/partials/" + testToken + "/picker?" + q.Encode()
}

func TestPickerOpensBelowCell(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.do(t, "GET", pickerPath(m, "2026-10-20", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-date="2026-10-20"`) {
		t.Fatalf("picker not rendered: %q", body)
	}
	// Centered under the anchor: x = 100 + 20 - 88, y = 200 + 32 + 8.
	if !strings.Contains(body, "left: 32px; top: 240px;") {
		t.Errorf("picker position wrong: %q", body)
	}
	if !strings.Contains(body, "10/20 (Tue)") {
		t.Error("picker title missing")
	}
	if strings.Contains(body, ">Holiday<") {
		t.Error("holiday must not be offered")
	}
}

func TestPickerSameCellCloses(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.do(t, "GET", pickerPath(m, "2026-10-20", url.Values{
		"active_member": {itoa(m.ID)}, "active_date": {"2026-10-20"},
	}), nil)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("status %d body %q, want empty 200", rec.Code, rec.Body.String())
	}
}

func TestPickerOtherCellMoves(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.do(t, "GET", pickerPath(m, "2026-10-22", url.Values{
		"active_member": {itoa(m.ID)}, "active_date": {"2026-10-20"},
	}), nil)
	if !strings.Contains(rec.Body.String(), `data-date="2026-10-22"`) {
		t.Errorf("picker did not move: %q", rec.Body.String())
	}
}

func TestPickerLockedCell(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	// Holiday: nothing opens.
	rec := env.do(t, "GET", pickerPath(m, "2026-10-21", nil), nil)
	if rec.Body.Len() != 0 {
		t.Errorf("holiday opened picker: %q", rec.Body.String())
	}

	// Weekend with another cell open: the open one stays.
	rec = env.do(t, "GET", pickerPath(m, "2026-10-24", url.Values{
		"active_member": {itoa(m.ID)}, "active_date": {"2026-10-20"},
	}), nil)
	if !strings.Contains(rec.Body.String(), `data-date="2026-10-20"`) {
		t.Errorf("locked click should keep the open cell: %q", rec.Body.String())
	}
}

func TestPickerDismiss(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.do(t, "GET", pickerPath(m, "2026-10-20", url.Values{
		"active_member": {itoa(m.ID)}, "active_date": {"2026-10-20"}, "dismiss": {"1"},
	}), nil)
	if rec.Body.Len() != 0 {
		t.Errorf("dismiss rendered picker: %q", rec.Body.String())
	}
}

func TestPickerInvalidCell(t *testing.T) {
	env := setupHandlers(t)

	rec := env.do(t, "GET", "/partials/"+testToken+"/picker?member=x&date=2026-10-20", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStatusPartial(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.form(t, "/partials/"+testToken+"/status?start=2026-10-19&end=2026-10-23", url.Values{
		"member_id": {itoa(m.ID)},
		"date":      {"2026-10-20"},
		"work_type": {"REMOTE"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `id="grid"`) {
		t.Error("expected grid partial")
	}
	if !strings.Contains(rec.Body.String(), ">Remote</button>") {
		t.Error("grid does not show the new status")
	}

	entries, err := env.statusStore.ListByCalendar(env.cal.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].WorkType != model.WorkRemote {
		t.Errorf("entries = %+v", entries)
	}
}

func TestStatusPartialRejectsUnknownKind(t *testing.T) {
	env := setupHandlers(t)
	m := env.addMember(t, "Mina")

	rec := env.form(t, "/partials/"+testToken+"/status", url.Values{
		"member_id": {itoa(m.ID)},
		"date":      {"2026-10-20"},
		"work_type": {"BEACH"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
