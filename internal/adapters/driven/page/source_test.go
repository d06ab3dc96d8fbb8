package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

const articleHTML = `<!doctype html>
<html><head><title>  Goroutines
 explained </title><style>body{color:red}</style></head>
<body>
<nav>Home | About</nav>
<header>Site header</header>
<article><h1>Goroutines</h1><p>Lightweight threads.</p><p>Scheduled by the runtime.</p>
<script>track()</script></article>
<footer>Copyright</footer>
</body></html>`

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantText  string
	}{
		{
			name:      "article wins over body noise",
			html:      articleHTML,
			wantTitle: "Goroutines explained",
			wantText:  "Goroutines Lightweight threads. Scheduled by the runtime.",
		},
		{
			name:     "main preferred over article",
			html:     `<body><article>side</article><main>primary text</main></body>`,
			wantText: "primary text",
		},
		{
			name:     "role main",
			html:     `<body><div role="main">role content</div><div>other</div></body>`,
			wantText: "role content",
		},
		{
			name:     "falls back to body",
			html:     `<body><div>plain</div><form>login</form><aside>ads</aside></body>`,
			wantText: "plain",
		},
		{
			name:      "og title fallback",
			html:      `<head><meta property="og:title" content="From OG"></head><body>x</body>`,
			wantTitle: "From OG",
			wantText:  "x",
		},
		{
			name:     "empty main skipped",
			html:     `<body><main><script>x()</script></main><div id="content">real</div></body>`,
			wantText: "real",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(strings.NewReader(tt.html))

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantText, got.Text)
		})
	}
}

func TestExtract_CapsLength(t *testing.T) {
	html := "<body><p>" + strings.Repeat("word ", domain.MaxPageTextLen) + "</p></body>"

	got, err := Extract(strings.NewReader(html))

	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(got.Text)), domain.MaxPageTextLen)
}

func TestSource_FetchHTTP(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	src := NewSource(Config{UserAgent: "test-agent"})
	got, err := src.PageText(context.Background(), server.URL+"/post")

	require.NoError(t, err)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, server.URL+"/post", got.URL)
	assert.Equal(t, "Goroutines explained", got.Title)
	assert.Contains(t, got.Text, "Lightweight threads.")
	assert.NotContains(t, got.Text, "Copyright")
}

func TestSource_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewSource(Config{}).PageText(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSource_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(articleHTML), 0600))
	src := NewSource(Config{})

	for _, loc := range []string{path, "file://" + path} {
		got, err := src.PageText(context.Background(), loc)
		require.NoError(t, err)
		assert.Equal(t, "Goroutines explained", got.Title)
		assert.Equal(t, loc, got.URL)
	}
}

func TestSource_MissingFile(t *testing.T) {
	_, err := NewSource(Config{}).PageText(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
