package akademik

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"classfinder-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

type rosterRow struct {
	nrp  string
	name string
}

func rosterPage(title string, gridClass bool, rows []rosterRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><tr><td>header</td></tr><tr>`)
	if title != "" {
		fmt.Fprintf(&b, `<td class="PageTitle">%s</td>`, title)
	} else {
		b.WriteString(`<td></td>`)
	}
	b.WriteString(`</tr></table>`)

	if gridClass {
		b.WriteString(`<table class="GridStyle">`)
	} else {
		b.WriteString(`<table>`)
	}
	b.WriteString(`<tr><th>No</th><th>NRP</th><th>Nama</th></tr>`)
	for i, row := range rows {
		fmt.Fprintf(
			&b,
			`<tr><td>%d</td><td>%s</td><td>%s</td></tr>`,
			i+1, row.nrp, row.name,
		)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func TestParseRoster(t *testing.T) {
	page := rosterPage("Dasar Pemrograman", true, []rosterRow{
		{"5025211015", "Jane Doe"},
		{"5025211016", "John Smith"},
		{"5025211017", "Budi Santoso"},
	})

	students, err := ParseRoster([]byte(page), "EF4101", "A")
	require.NoError(t, err)
	require.Equal(t, []Student{
		{NRP: "5025211015", Name: "Jane Doe", Course: "Dasar Pemrograman"},
		{NRP: "5025211016", Name: "John Smith", Course: "Dasar Pemrograman"},
		{NRP: "5025211017", Name: "Budi Santoso", Course: "Dasar Pemrograman"},
	}, students)
}

func TestParseRosterSkipsMalformedRows(t *testing.T) {
	page := `<html><body>
	<table><tr><td>header</td></tr><tr><td class="PageTitle">Struktur Data</td></tr></table>
	<table class="GridStyle">
	<tr><th>No</th><th>NRP</th><th>Nama</th></tr>
	<tr><td>1</td><td>5025211015</td><td>Jane Doe</td></tr>
	<tr><td>too few cells</td></tr>
	<tr><td>3</td><td></td><td>No NRP</td></tr>
	<tr><td>4</td><td>5025211018</td><td></td></tr>
	<tr><td>5</td><td>5025211019</td><td>Siti Rahma</td></tr>
	</table></body></html>`

	students, err := ParseRoster([]byte(page), "EF4201", "B")
	require.NoError(t, err)
	require.Equal(t, []Student{
		{NRP: "5025211015", Name: "Jane Doe", Course: "Struktur Data"},
		{NRP: "5025211019", Name: "Siti Rahma", Course: "Struktur Data"},
	}, students)
}

func TestParseRosterPositionalFallback(t *testing.T) {
	page := rosterPage("Sistem Operasi", false, []rosterRow{
		{"5025211015", "Jane Doe"},
	})

	students, err := ParseRoster([]byte(page), "EF4202", "C")
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "Sistem Operasi", students[0].Course)
}

func TestParseRosterTitlePlaceholder(t *testing.T) {
	page := rosterPage("", true, []rosterRow{
		{"5025211015", "Jane Doe"},
	})

	students, err := ParseRoster([]byte(page), "EF4101", "A")
	require.NoError(t, err)
	require.Equal(t, "EF4101-A", students[0].Course)
}

func TestParseRosterEmptyTable(t *testing.T) {
	page := rosterPage("Dasar Pemrograman", true, nil)

	students, err := ParseRoster([]byte(page), "EF4101", "B")
	require.NoError(t, err)
	require.Empty(t, students)
}

func TestParseRosterNoTable(t *testing.T) {
	_, err := ParseRoster([]byte(`<html><body><p>tidak ada akses</p></body></html>`), "EF4101", "A")
	require.ErrorIs(t, err, ErrNoRosterTable)
}

func testQuery(course, section string) RosterQuery {
	return RosterQuery{
		Department:     "51100",
		CourseCode:     course,
		Section:        section,
		Semester:       2,
		Year:           2024,
		CurriculumYear: 2023,
	}
}

func TestFetchRosterSendsCredentials(t *testing.T) {
	cleanup := testutil.Setup(t, "akademik")
	defer cleanup()

	sessionID := testutil.RandomSessionID(t)

	var gotCookie, gotCourse, gotSection string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("PHPSESSID")
		if err == nil {
			gotCookie = cookie.Value
		}
		gotCourse = r.URL.Query().Get("mkID")
		gotSection = r.URL.Query().Get("mkKelas")
		fmt.Fprint(w, rosterPage("Dasar Pemrograman", true, nil))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL})
	_, err := client.FetchRoster(context.Background(), testQuery("EF4101", "A"), sessionID)
	require.NoError(t, err)

	require.Equal(t, sessionID, gotCookie)
	require.Equal(t, "EF4101", gotCourse)
	require.Equal(t, "A", gotSection)
}

func TestFetchRosterRetriesThenSucceeds(t *testing.T) {
	cleanup := testutil.Setup(t, "akademik")
	defer cleanup()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, rosterPage("Dasar Pemrograman", true, []rosterRow{
			{"5025211015", "Jane Doe"},
		}))
	}))
	defer server.Close()

	baseDelay := 20 * time.Millisecond
	client := NewClient(ClientOptions{
		BaseURL:        server.URL,
		MaxRetries:     3,
		RetryBaseDelay: baseDelay,
	})

	start := time.Now()
	students, err := client.FetchRoster(context.Background(), testQuery("EF4101", "A"), "session")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, students, 1)
	require.EqualValues(t, 3, requests.Load())
	// two backoffs happened: base*2^0*j + base*2^1*j with j >= 0.5
	require.GreaterOrEqual(t, elapsed, baseDelay/2+baseDelay)
}

func TestFetchRosterExhaustsRetries(t *testing.T) {
	cleanup := testutil.Setup(t, "akademik")
	defer cleanup()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseURL:        server.URL,
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
	})

	_, err := client.FetchRoster(context.Background(), testQuery("EF4101", "A"), "session")
	require.Error(t, err)
	require.EqualValues(t, 3, requests.Load())
}

func TestCheckSession(t *testing.T) {
	cleanup := testutil.Setup(t, "akademik")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("PHPSESSID")
		if err != nil || cookie.Value != "live" {
			fmt.Fprint(w, `<html><body><a href="myitsauth.php">login</a></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>Selamat datang</body></html>`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL})
	require.True(t, client.CheckSession(context.Background(), "live"))
	require.False(t, client.CheckSession(context.Background(), "expired"))

	server.Close()
	require.False(t, client.CheckSession(context.Background(), "live"))
}

func TestCheckSessionFailsClosedOnNon200(t *testing.T) {
	cleanup := testutil.Setup(t, "akademik")
	defer cleanup()

	status := http.StatusServiceUnavailable
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL})

	// neither body contains the login marker, the status alone must
	// invalidate the session
	require.False(t, client.CheckSession(context.Background(), "live"))

	status = http.StatusForbidden
	require.False(t, client.CheckSession(context.Background(), "live"))
}

func TestBackoffDelayBounds(t *testing.T) {
	base := time.Second * 2
	for attempt := 1; attempt <= 3; attempt++ {
		scale := time.Duration(1 << (attempt - 1))
		for i := 0; i < 100; i++ {
			delay := backoffDelay(base, attempt)
			require.GreaterOrEqual(t, delay, base*scale/2)
			require.LessOrEqual(t, delay, base*scale)
		}
	}
}
