// Package pageinfo describes the page a detection pass ran over: the title
// used to name exports, readability metadata and a language guess.
package pageinfo

import (
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/textnorm"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// minLanguageText is the shortest text worth handing to the language
// detector. Below it guesses are noise.
const minLanguageText = 40

// maxLanguageText bounds the sample given to the detector.
const maxLanguageText = 4000

var languages = []lingua.Language{
	lingua.English, lingua.French, lingua.German, lingua.Spanish,
	lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Polish,
	lingua.Swedish, lingua.Turkish, lingua.Russian, lingua.Vietnamese,
	lingua.Japanese, lingua.Chinese, lingua.Korean,
}

// detector is built once: loading the n-gram models is the slow part.
var detector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithLowAccuracyMode().
		Build()
})

// Analyze reads page metadata from doc. extra is text used for the language
// guess when the page itself carries too little prose, typically the detected
// column names. doc is only read.
func Analyze(doc *goquery.Document, pageURL *url.URL, extra ...string) models.PageInfo {
	info := models.PageInfo{}
	if pageURL != nil {
		info.URL = pageURL.String()
	}

	var text string
	if article, ok := readArticle(doc, pageURL); ok {
		info.Title = textnorm.Normalize(article.Title)
		info.SiteName = textnorm.Normalize(article.SiteName)
		info.Byline = textnorm.Normalize(article.Byline)
		info.Excerpt = textnorm.Normalize(article.Excerpt)
		if article.PublishedTime != nil {
			info.PublishedTime = article.PublishedTime.Format("2006-01-02")
		}
		text = article.TextContent
	}

	if info.Title == "" {
		info.Title = textnorm.Normalize(doc.Find("title").First().Text())
	}
	if info.Title == "" {
		info.Title = textnorm.Normalize(doc.Find("h1").First().Text())
	}

	if len([]rune(strings.TrimSpace(text))) < minLanguageText {
		text = strings.TrimSpace(text + " " + strings.Join(extra, " "))
	}
	info.Language = DetectLanguage(text)
	return info
}

func readArticle(doc *goquery.Document, pageURL *url.URL) (readability.Article, bool) {
	markup, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return readability.Article{}, false
	}
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(markup), pageURL)
	if err != nil {
		return readability.Article{}, false
	}
	return article, true
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when text is too
// short or no language is reliable.
func DetectLanguage(text string) string {
	text = textnorm.Normalize(text)
	runes := []rune(text)
	if len(runes) < minLanguageText {
		return ""
	}
	if len(runes) > maxLanguageText {
		text = string(runes[:maxLanguageText])
	}
	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
