// Package registry discovers the model roster the t3.chat service currently
// offers. The service has no models API; the roster is embedded in the
// minified JS bundles the web app ships, so discovery means finding the right
// bundle and mining the model table out of it. The extraction strategy hides
// behind the Source interface so it can be swapped when the bundle format
// drifts.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sorane/t3c/internal/t3"
)

// Source produces the current model roster.
type Source interface {
	FetchModels(ctx context.Context) ([]t3.ModelInfo, error)
}

// WebAppSource mines the model roster from the service's delivered JS
// bundles: it scrapes the chunk script URLs off the homepage, downloads each
// chunk, and extracts the model table with regular expressions.
type WebAppSource struct {
	// BaseURL is the service address; overridable for tests.
	BaseURL string

	// KnownChunks are bundle URLs tried before scraping the homepage. The
	// model table tends to stay in the same chunk across deploys for a while.
	KnownChunks []string

	cookies    string
	httpClient *http.Client
	debug      bool
}

// NewWebAppSource creates a source authenticated with the given cookie string.
func NewWebAppSource(cookies string) *WebAppSource {
	return &WebAppSource{
		BaseURL:    t3.DefaultBaseURL,
		cookies:    cookies,
		httpClient: &http.Client{},
	}
}

// SetDebug enables or disables debug output to stderr.
func (s *WebAppSource) SetDebug(enabled bool) {
	s.debug = enabled
}

// chunkPattern matches the hashed webpack chunk filenames the model table
// lives in.
var chunkPattern = regexp.MustCompile(`^/_next/static/chunks/[a-f0-9]+\.js`)

// modelListPattern matches the JS array literal enumerating the model ids.
var modelListPattern = regexp.MustCompile(`let\s+\w+\s*=\s*\[((?:"[^"]+",?\s*)+)\]`)

// quotedString extracts individual entries from a matched array literal.
var quotedString = regexp.MustCompile(`"([^"]+)"`)

// minRosterSize guards against matching some unrelated string array: the
// real model table always has well over this many entries.
const minRosterSize = 10

// FetchModels retrieves the current roster. It fails with an AuthError on
// rejected cookies, a ParseError when no bundle contains a recognizable model
// table, and a NetworkError on transport failure.
func (s *WebAppSource) FetchModels(ctx context.Context) ([]t3.ModelInfo, error) {
	for _, chunkURL := range s.KnownChunks {
		models, err := s.modelsFromChunk(ctx, chunkURL)
		if err == nil && len(models) >= minRosterSize {
			return models, nil
		}
		if s.debug && err != nil {
			fmt.Fprintf(os.Stderr, "known chunk %s: %v\n", chunkURL, err)
		}
	}

	chunkURLs, err := s.chunkURLsFromHomepage(ctx)
	if err != nil {
		return nil, err
	}

	for _, chunkURL := range chunkURLs {
		models, err := s.modelsFromChunk(ctx, chunkURL)
		if err == nil && len(models) >= minRosterSize {
			return models, nil
		}
		if s.debug && err != nil {
			fmt.Fprintf(os.Stderr, "chunk %s: %v\n", chunkURL, err)
		}
	}

	return nil, &t3.ParseError{Op: "fetch models", Reason: "no delivered bundle contained a model table; the app format may have changed"}
}

// chunkURLsFromHomepage scrapes the script tags off the service homepage and
// returns the chunk URLs they reference.
func (s *WebAppSource) chunkURLsFromHomepage(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/", nil)
	if err != nil {
		return nil, &t3.NetworkError{Op: "fetch homepage", Err: err}
	}
	req.Header.Set("Cookie", s.cookies)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &t3.NetworkError{Op: "fetch homepage", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &t3.AuthError{Op: "fetch homepage", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &t3.NetworkError{Op: "fetch homepage", StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &t3.ParseError{Op: "fetch homepage", Reason: "parsing homepage HTML", Err: err}
	}

	var chunkURLs []string
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}
		if chunkPattern.MatchString(src) {
			chunkURLs = append(chunkURLs, s.BaseURL+src)
		}
	})

	if len(chunkURLs) == 0 {
		return nil, &t3.ParseError{Op: "fetch homepage", Reason: "no chunk script URLs found in homepage"}
	}
	return chunkURLs, nil
}

// modelsFromChunk downloads one JS chunk and extracts the model table from it.
func (s *WebAppSource) modelsFromChunk(ctx context.Context, chunkURL string) ([]t3.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chunkURL, nil)
	if err != nil {
		return nil, &t3.NetworkError{Op: "fetch chunk", Err: err}
	}
	req.Header.Set("Cookie", s.cookies)
	req.Header.Set("Referer", s.BaseURL+"/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &t3.NetworkError{Op: "fetch chunk", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &t3.NetworkError{Op: "fetch chunk", StatusCode: resp.StatusCode}
	}

	js, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &t3.NetworkError{Op: "fetch chunk", Err: err}
	}

	return ExtractModels(string(js))
}

// ExtractModels mines the model table from the JS source of one bundle.
// It first locates the array literal enumerating the model ids, then pulls
// each model's attribute object by id. Models whose attributes cannot be
// located still appear in the result with placeholder metadata, so the
// roster stays complete even when the attribute format drifts.
func ExtractModels(js string) ([]t3.ModelInfo, error) {
	listMatch := modelListPattern.FindStringSubmatch(js)
	if listMatch == nil {
		return nil, &t3.ParseError{Op: "extract models", Reason: "no model id list found in bundle"}
	}

	var modelIDs []string
	for _, m := range quotedString.FindAllStringSubmatch(listMatch[1], -1) {
		modelIDs = append(modelIDs, m[1])
	}
	if len(modelIDs) == 0 {
		return nil, &t3.ParseError{Op: "extract models", Reason: "model id list is empty"}
	}

	models := make([]t3.ModelInfo, 0, len(modelIDs))
	for _, id := range modelIDs {
		if info, ok := extractModelAttributes(js, id); ok {
			models = append(models, info)
			continue
		}
		models = append(models, t3.ModelInfo{
			ID:               id,
			Name:             strings.ToUpper(id),
			Provider:         "Unknown",
			Developer:        "Unknown",
			ShortDescription: id + " model",
		})
	}
	return models, nil
}

// extractModelAttributes pulls one model's attribute object out of the
// bundle source.
func extractModelAttributes(js, id string) (t3.ModelInfo, bool) {
	pattern := fmt.Sprintf(
		`(?s)"%s":\s*\{.*?id:\s*"([^"]+)".*?name:\s*"([^"]+)".*?provider:\s*"([^"]+)".*?developer:\s*"([^"]+)".*?shortDescription:\s*"([^"]*)"(?:.*?fullDescription:\s*"([^"]*)")?`,
		regexp.QuoteMeta(id))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return t3.ModelInfo{}, false
	}
	match := re.FindStringSubmatch(js)
	if match == nil {
		return t3.ModelInfo{}, false
	}

	info := t3.ModelInfo{
		ID:               match[1],
		Name:             match[2],
		Provider:         match[3],
		Developer:        match[4],
		ShortDescription: match[5],
		FullDescription:  match[6],
	}
	applyCapabilities(&info, featureBlock(js, id))
	return info, true
}

// featurePattern matches the features array inside a model's attribute
// object, scanning from the model's key.
func featureBlock(js, id string) string {
	// Go's regexp caps bounded repeats at 1000, so the 2000-char scan window
	// is written as two consecutive 1000-char bounds.
	re, err := regexp.Compile(fmt.Sprintf(`(?s)"%s":\s*\{.{0,1000}?.{0,1000}?features:\s*\[([^\]]*)\]`, regexp.QuoteMeta(id)))
	if err != nil {
		return ""
	}
	match := re.FindStringSubmatch(js)
	if match == nil {
		return ""
	}
	return match[1]
}

// applyCapabilities derives the capability flags from a model's feature
// list. Absent or unrecognizable feature blocks leave all flags false.
func applyCapabilities(info *t3.ModelInfo, features string) {
	for _, m := range quotedString.FindAllStringSubmatch(features, -1) {
		switch m[1] {
		case "imageGeneration", "image-generation":
			info.SupportsImages = true
		case "search", "webSearch", "web-search":
			info.SupportsSearch = true
		case "reasoning", "reasoningEffort", "effortControl":
			info.SupportsEffort = true
		}
	}
}
