package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InlineImage is a template-relative image referenced by Content-ID.
type InlineImage struct {
	ContentID string // without angle brackets
	Path      string // absolute path on disk
}

// rewriteFunc returns the new value for a relative reference already
// resolved to absPath, or ok=false to leave it alone.
type rewriteFunc func(elem, absPath string) (val string, ok bool)

// RewriteRelativePaths converts relative image and link paths to absolute
// file:// URLs so a draft opened from the output directory, or printed by
// the browser, still finds files next to the template.
// If sourceDir is empty, returns the HTML unchanged.
//
// Only img[src] and a[href] are rewritten. URLs, anchors, absolute paths and
// references escaping sourceDir are left as written.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}
	return rewriteRelative(htmlContent, sourceDir, func(_, absPath string) (string, bool) {
		return pathToFileURL(absPath), true
	})
}

// EmbedRelativeImages replaces relative img[src] references with cid: URLs
// and returns the images to attach inline. Each distinct file gets one
// Content-ID. Links are not touched.
// If sourceDir is empty, returns the HTML unchanged.
func EmbedRelativeImages(htmlContent, sourceDir string) (string, []InlineImage, error) {
	if sourceDir == "" {
		return htmlContent, nil, nil
	}

	var images []InlineImage
	byPath := map[string]string{}
	out, err := rewriteRelative(htmlContent, sourceDir, func(elem, absPath string) (string, bool) {
		if elem != "img" {
			return "", false
		}
		cid, ok := byPath[absPath]
		if !ok {
			cid = uuid.NewString() + "@mdmerge"
			byPath[absPath] = cid
			images = append(images, InlineImage{ContentID: cid, Path: absPath})
		}
		return "cid:" + cid, true
	})
	if err != nil {
		return "", nil, err
	}
	return out, images, nil
}

func rewriteRelative(htmlContent, sourceDir string, fn rewriteFunc) (string, error) {
	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absSourceDir, fn)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node and whether it was a fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only the children are rendered.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, sourceDir string, fn rewriteFunc) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", sourceDir, fn)
		case atom.A:
			rewriteAttr(n, "href", sourceDir, fn)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir, fn)
	}
}

func rewriteAttr(n *html.Node, attrName, sourceDir string, fn rewriteFunc) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}

		if val, ok := fn(n.Data, absPath); ok {
			n.Attr[i].Val = val
		}
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		// http:, https:, file:, data:, mailto:, cid: ...
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
