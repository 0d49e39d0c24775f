// Package share serves shared recipe links: social media crawlers get a
// static page with Open Graph tags, humans get redirected into the app.
package share

import (
	"html/template"
	"net/http"
	"regexp"
	"strings"

	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/logging"
)

var crawlerPatterns = []string{
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"slackbot",
	"whatsapp",
	"discordbot",
	"linkedinbot",
	"pinterest",
	"telegrambot",
	"googlebot",
}

func isCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, p := range crawlerPatterns {
		if strings.Contains(ua, p) {
			return true
		}
	}
	return false
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

func absoluteImageURL(image, origin string) string {
	switch {
	case image == "":
		return ""
	case absoluteURL.MatchString(image):
		return image
	case strings.HasPrefix(image, "/"):
		return origin + image
	default:
		return origin + "/" + image
	}
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <meta name="description" content="{{.Description}}">
  <meta property="og:type" content="website">
  <meta property="og:title" content="{{.Title}}">
  <meta property="og:description" content="{{.Description}}">
  <meta property="og:image" content="{{.Image}}">
  <meta property="og:url" content="{{.PageURL}}">
  <meta name="twitter:card" content="summary_large_image">
  <meta name="twitter:title" content="{{.Title}}">
  <meta name="twitter:description" content="{{.Description}}">
  <meta name="twitter:image" content="{{.Image}}">
{{- if not .Crawler}}
  <meta http-equiv="refresh" content="0;url={{.SPAURL}}">
{{- end}}
</head>
<body>
{{- if .Crawler}}
  <h1>{{.Title}}</h1>
  <p>{{.Description}}</p>
  <p><a href="{{.SPAURL}}">Open recipe</a></p>
{{- else}}
  <p>Opening recipe&hellip;</p>
  <p><a href="{{.SPAURL}}">Open recipe</a></p>
  <script>window.location.replace({{.SPAURL}});</script>
{{- end}}
</body>
</html>
`))

type previewData struct {
	Title       string
	Description string
	Image       string
	PageURL     string
	SPAURL      string
	Crawler     bool
}

// sharedRecipeView is the subset of the recipe snapshot the preview needs.
type sharedRecipeView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// PreviewHandler serves GET /share/{token}.
func PreviewHandler(store *db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(httputil.PathVar(r, "token"))
		if token == "" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		shared, err := store.GetSharedRecipe(r.Context(), token)
		if err != nil {
			logging.Errorf("share: load %s: %v", token, err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		if shared == nil {
			http.Error(w, "Recipe not found", http.StatusNotFound)
			return
		}

		view := sharedRecipeView{Title: "Recipe"}
		if err := decodeRecipe(shared.Recipe, &view); err != nil {
			http.Error(w, "Recipe not found", http.StatusNotFound)
			return
		}

		origin := requestOrigin(r)
		data := previewData{
			Title:       view.Title,
			Description: view.Description,
			Image:       absoluteImageURL(view.Image, origin),
			PageURL:     origin + "/share/" + token,
			SPAURL:      origin + "/?share=" + token,
			Crawler:     isCrawler(r.UserAgent()),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		if err := previewTemplate.Execute(w, data); err != nil {
			logging.Errorf("share: render %s: %v", token, err)
		}
	}
}
