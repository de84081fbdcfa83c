package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-builder/models"
)

func openFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/checkin.html")
	require.NoError(t, err)
	return data
}

func TestParse(t *testing.T) {
	reg, err := Parse(strings.NewReader(string(openFixture(t))))
	require.NoError(t, err)

	assert.Equal(t, "Copa Paulista de Jiu-Jitsu 2024", reg.Title)
	require.Len(t, reg.Competitors, 3)

	assert.Equal(t, models.Competitor{
		Name:           "JOAO SILVA",
		Team:           "ALLIANCE",
		Professor:      "FABIO GURGEL",
		AgeDivision:    "ADULTO",
		Belt:           "AZUL",
		WeightDivision: "LEVE",
		Gender:         "MASCULINO",
	}, *reg.Competitors[0])

	assert.Equal(t, "PEDRO ARAUJO", reg.Competitors[1].Name)
	assert.Equal(t, "N/A", reg.Competitors[1].Professor)

	kid := reg.Competitors[2]
	assert.Equal(t, "MARIA CONCEICAO", kid.Name)
	assert.Equal(t, "INFANTIL 1", kid.AgeDivision)
	assert.Equal(t, "CINZAEBRANCA", kid.Belt)
	assert.Equal(t, "N/A", kid.WeightDivision)
	assert.Equal(t, "FEMININO", kid.Gender)
}

func TestParseDefaultsAndErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`<html><body><h4 class="MuiTypography-root">Vazio</h4></body></html>`))
	assert.ErrorIs(t, err, ErrNoCategories)

	reg, err := Parse(strings.NewReader(`<div class="MuiAccordion-root"></div>`))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEventTitle, reg.Title)
	assert.Empty(t, reg.Competitors)
}

func TestParseCategoryTitle(t *testing.T) {
	c, ok := parseCategoryTitle("Master 2, Preta, Pesado, Masculino - 10")
	require.True(t, ok)
	assert.Equal(t, "Master 2", c.AgeDivision)
	assert.Equal(t, "Preta", c.Belt)
	assert.Equal(t, "Pesado", c.WeightDivision)
	assert.Equal(t, "Masculino", c.Gender)

	c, ok = parseCategoryTitle("Kids, Branca, Feminino - 1")
	require.True(t, ok)
	assert.Equal(t, "N/A", c.WeightDivision)
	assert.Equal(t, "Feminino", c.Gender)

	_, ok = parseCategoryTitle("Absoluto, Masculino")
	assert.False(t, ok)
}

func TestClientFetchUsesCache(t *testing.T) {
	page := openFixture(t)
	var hits atomic.Int32
	var gotAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer server.Close()

	httpClient := NewCachedHTTPClient(httpcache.NewMemoryCache(), time.Hour, 5*time.Second, "bracket-builder-test")
	client := NewClient(httpClient, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 2; i++ {
		reg, err := client.Fetch(context.Background(), server.URL+"/checkin/77")
		require.NoError(t, err)
		assert.Len(t, reg.Competitors, 3)
	}
	assert.Equal(t, int32(1), hits.Load(), "second fetch must be served from cache")
	assert.Equal(t, "bracket-builder-test", gotAgent.Load())
}

func TestClientFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)
	_, err := client.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "404")

	_, err = client.Fetch(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestHeaderOverrideTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("X-Seen", r.Header.Get("X-Trace"))
	}))
	defer server.Close()

	transport := &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request:   func(req *http.Request) { req.Header.Set("X-Trace", "abc") },
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			return nil
		},
	}
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Pragma"))
	assert.Equal(t, "abc", resp.Header.Get("X-Seen"))
	assert.Empty(t, req.Header.Get("X-Trace"), "caller's request must not be modified")
}

// clientRenderedPage builds its categories in the browser and only mounts a
// category's cards once its header is clicked.
const clientRenderedPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"></head>
<body><div id="root"></div>
<script>
setTimeout(function () {
  var root = document.getElementById("root");
  root.innerHTML =
    '<h4 class="MuiTypography-root">Open de Verão</h4>' +
    '<div class="MuiPaper-root MuiAccordion-root">' +
    '<div class="MuiButtonBase-root MuiAccordionSummary-root"><p class="MuiTypography-root">Adulto, Azul, Leve, Masculino - 2</p></div>' +
    '<div class="MuiAccordionDetails-root"></div></div>';
  var summary = root.querySelector(".MuiAccordionSummary-root");
  summary.addEventListener("click", function () {
    root.querySelector(".MuiAccordionDetails-root").innerHTML =
      '<div class="MuiBox-root css-g32t2d"><h6>Caio</h6><p>Equipe: Atos</p></div>' +
      '<div class="MuiBox-root css-g32t2d"><h6>Davi</h6><p>Equipe: Alliance</p><p>Professor(a): Rita</p></div>';
  });
}, 200);
</script>
</body></html>`

func serveClientRenderedPage(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, clientRenderedPage)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientCannotReadClientRenderedPage(t *testing.T) {
	server := serveClientRenderedPage(t)

	_, err := NewClient(server.Client(), nil).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNoCategories)
}

func TestNewBrowserFetcherDefaults(t *testing.T) {
	f := NewBrowserFetcher("/opt/chrome/chrome", 0, nil)
	assert.Equal(t, "/opt/chrome/chrome", f.bin)
	assert.Equal(t, 30*time.Second, f.timeout)
	assert.NotNil(t, f.logger)
}
