package sink

import (
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/denverfit/recsched/internal/query"
)

// WriteMarkdown converts fetched markup to GitHub-flavored Markdown
// for inspection when the site changes shape, resolving relative links
// against pageURL so registration links stay clickable.
func WriteMarkdown(html, pageURL, path string) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", selec.Text(), query.Resolve(pageURL, href))
			return &str
		},
	})

	mdStr, err := converter.ConvertString(html)
	if err != nil {
		return fmt.Errorf("convert markup to markdown: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(mdStr), 0644)
}
