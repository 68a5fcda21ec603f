// internal/service/rewrite.go
package service

import (
    "fmt"
    "net/url"
    "strings"
)

// RenderTemplate fills {placeholder} markers in a campaign body.
func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        if v == "" {
            v = "<unknown>"
        }
        result = strings.ReplaceAll(result, "{"+k+"}", v)
    }
    return result
}

// RewriteForTracking prepares outbound HTML for a message: every href is
// routed through the click endpoint with the original target as a query
// parameter, and an open pixel referencing the message token is appended.
func RewriteForTracking(html, token, baseURL string) string {
    rewritten := rewriteLinks(html, token, baseURL)
    pixel := fmt.Sprintf(`<img src="%s/t/open/%s" width="1" height="1" alt="" style="display:none"/>`, baseURL, token)

    if idx := strings.LastIndex(rewritten, "</body>"); idx >= 0 {
        return rewritten[:idx] + pixel + rewritten[idx:]
    }
    return rewritten + pixel
}

func rewriteLinks(html, token, baseURL string) string {
    var b strings.Builder
    rest := html
    for {
        idx := strings.Index(rest, `href="`)
        if idx < 0 {
            b.WriteString(rest)
            break
        }
        start := idx + len(`href="`)
        end := strings.Index(rest[start:], `"`)
        if end < 0 {
            b.WriteString(rest)
            break
        }

        target := rest[start : start+end]
        b.WriteString(rest[:start])
        if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
            b.WriteString(fmt.Sprintf("%s/t/click/%s?url=%s", baseURL, token, url.QueryEscape(target)))
        } else {
            // mailto:, anchors and relative paths stay as they are
            b.WriteString(target)
        }
        rest = rest[start+end:]
    }
    return b.String()
}
